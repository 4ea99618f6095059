package host

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/handler"
	"github.com/mogud/snowdi/core/option"
)

var optionInjectorType = reflect.TypeOf((*option.IOptionInjector)(nil)).Elem()
var loggerInjectorType = reflect.TypeOf((*logging.ILoggerInjector)(nil)).Elem()
var scopeType = reflect.TypeOf((*injection.IRoutineScope)(nil)).Elem()
var providerType = reflect.TypeOf((*injection.IRoutineProvider)(nil)).Elem()
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Inject 调用实例上所有以 Construct 开头的方法，参数从 scope 中获取
//
// 参数类型为 *option.Option[T] 或 *logging.Logger[T] 时注入对应的选项与日志；
// 方法最后一个返回值为 error 时，非空错误会中断注入并返回。
func Inject(scope injection.IRoutineScope, instance any) error {
	if instance == nil {
		return nil
	}

	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	vTy := v.Type()

	for i := 0; i < vTy.NumMethod(); i++ {
		fMethod := vTy.Method(i)
		if !strings.HasPrefix(fMethod.Name, "Construct") {
			continue
		}

		fTy := fMethod.Type
		args := make([]reflect.Value, 0, fTy.NumIn())
		args = append(args, v)
		for j := 1; j < fTy.NumIn(); j++ {
			argInstance, err := resolveArgument(scope, fTy.In(j))
			if err != nil {
				return fmt.Errorf("inject %v.%v: %w", vTy, fMethod.Name, err)
			}
			args = append(args, argInstance)
		}

		results := fMethod.Func.Call(args)
		if len(results) > 0 && fTy.Out(len(results)-1) == errorType {
			if err, _ := results[len(results)-1].Interface().(error); err != nil {
				return fmt.Errorf("inject %v.%v: %w", vTy, fMethod.Name, err)
			}
		}
	}
	return nil
}

func resolveArgument(scope injection.IRoutineScope, argTy reflect.Type) (reflect.Value, error) {
	var argInstance any
	var err error
	switch {
	case argTy == scopeType:
		argInstance = scope
	case argTy == providerType:
		argInstance = scope.GetProvider()
	case argTy.Implements(optionInjectorType):
		var repo *option.Repository
		repo, err = injection.TryGetRoutine[*option.Repository](scope.GetProvider())
		if err == nil {
			argInstance = option.NewOptionInjector(argTy, repo)
		}
	case argTy.Implements(loggerInjectorType):
		var rh *handler.RootHandler
		rh, err = injection.TryGetRoutine[*handler.RootHandler](scope.GetProvider())
		if err == nil {
			argInstance = rh.WrapToContainer(argTy)
		}
	default:
		argInstance, err = scope.GetProvider().GetRoutine(argTy)
	}

	if err != nil {
		return reflect.Value{}, err
	}
	if argInstance == nil {
		return reflect.Zero(argTy), nil
	}
	return reflect.ValueOf(argInstance), nil
}

// NewStruct 通过反射创建指定类型 T 的实例，类型 T 必须为结构体指针
func NewStruct[T any]() T {
	ty := reflect.TypeOf((*T)(nil)).Elem()
	return reflect.New(ty.Elem()).Interface().(T)
}
