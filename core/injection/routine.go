package injection

import (
	"fmt"
	"reflect"
)

type defaultKey struct{}

func (defaultKey) String() string {
	return "default"
}

// DefaultKey 未指定 Key 时使用的注册键
var DefaultKey any = defaultKey{}

// IDisposable 需要在所属 scope 结束时释放的 routine
type IDisposable interface {
	Dispose() error
}

type IRoutineCollection interface {
	AddDescriptor(descriptor *RoutineDescriptor) error
	GetDescriptors() []*RoutineDescriptor
	GetDescriptor(ty reflect.Type) *RoutineDescriptor
	GetKeyedDescriptor(key any, ty reflect.Type) *RoutineDescriptor
}

type IRoutineScope interface {
	GetID() string
	GetRoot() IRoutineScope
	GetProvider() IRoutineProvider
	IsDisposed() bool
	Dispose() error
}

type IRoutineProvider interface {
	GetRoutine(ty reflect.Type) (any, error)
	GetKeyedRoutine(key any, ty reflect.Type) (any, error)

	CreateScope() IRoutineScope
	GetRootScope() IRoutineScope
}

type RoutineDescriptor struct {
	Lifetime RoutineLifetime                        // Routine 生命期
	Key      any                                    // 按 Key 注册
	TyKey    reflect.Type                           // 注册的接口类型 Key
	TyImpl   reflect.Type                           // 注册的实现类型
	Factory  func(scope IRoutineScope) (any, error) // 工厂方法，用于在 scope 中创建实例，方法必须返回新实例
}

func (ss *RoutineDescriptor) String() string {
	if ss.Key == nil || ss.Key == DefaultKey {
		return fmt.Sprintf("%v(%v)", ss.TyKey, ss.Lifetime)
	}
	return fmt.Sprintf("%v[%v](%v)", ss.TyKey, ss.Key, ss.Lifetime)
}

type RoutineLifetime uint8

const (
	Singleton RoutineLifetime = iota
	Scoped
	Transient
)

func (l RoutineLifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case Scoped:
		return "Scoped"
	case Transient:
		return "Transient"
	}
	return fmt.Sprintf("RoutineLifetime(%d)", uint8(l))
}

func GetRoutine[T any](provider IRoutineProvider) T {
	return GetKeyedRoutine[T](provider, DefaultKey)
}

// GetKeyedRoutine 获取 routine，失败时 panic，适用于必须存在的依赖
func GetKeyedRoutine[T any](provider IRoutineProvider, key any) T {
	res, err := TryGetKeyedRoutine[T](provider, key)
	if err != nil {
		panic(err)
	}
	return res
}

func TryGetRoutine[T any](provider IRoutineProvider) (T, error) {
	return TryGetKeyedRoutine[T](provider, DefaultKey)
}

func TryGetKeyedRoutine[T any](provider IRoutineProvider, key any) (T, error) {
	var zero T
	ty := reflect.TypeOf((*T)(nil)).Elem()
	instance, err := provider.GetKeyedRoutine(key, ty)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}

	res, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("routine %v: instance of type %T is not assignable", ty, instance)
	}
	return res, nil
}
