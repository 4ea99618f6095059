package host

import (
	"fmt"
	"reflect"

	"github.com/mogud/snowdi/core/injection"
)

func AddSingleton[U any](registrar IRoutineRegistrar) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, nil, nil, injection.Singleton)
}
func AddVariantSingleton[T, U any](registrar IRoutineRegistrar) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, nil, nil, injection.Singleton)
}
func AddKeyedSingleton[U any](registrar IRoutineRegistrar, key any) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, key, nil, injection.Singleton)
}
func AddVariantKeyedSingleton[T, U any](registrar IRoutineRegistrar, key any) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, key, nil, injection.Singleton)
}
func AddSingletonFactory[U any](registrar IRoutineRegistrar, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, nil, factory, injection.Singleton)
}
func AddVariantSingletonFactory[T, U any](registrar IRoutineRegistrar, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, nil, factory, injection.Singleton)
}
func AddKeyedSingletonFactory[U any](registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, key, factory, injection.Singleton)
}
func AddVariantKeyedSingletonFactory[T, U any](registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, key, factory, injection.Singleton)
}

func AddScoped[U any](registrar IRoutineRegistrar) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, nil, nil, injection.Scoped)
}
func AddVariantScoped[T, U any](registrar IRoutineRegistrar) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, nil, nil, injection.Scoped)
}
func AddKeyedScoped[U any](registrar IRoutineRegistrar, key any) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, key, nil, injection.Scoped)
}
func AddVariantKeyedScoped[T, U any](registrar IRoutineRegistrar, key any) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, key, nil, injection.Scoped)
}
func AddScopedFactory[U any](registrar IRoutineRegistrar, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, nil, factory, injection.Scoped)
}
func AddVariantScopedFactory[T, U any](registrar IRoutineRegistrar, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, nil, factory, injection.Scoped)
}
func AddKeyedScopedFactory[U any](registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, key, factory, injection.Scoped)
}
func AddVariantKeyedScopedFactory[T, U any](registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, key, factory, injection.Scoped)
}

func AddTransient[U any](registrar IRoutineRegistrar) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, nil, nil, injection.Transient)
}
func AddVariantTransient[T, U any](registrar IRoutineRegistrar) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, nil, nil, injection.Transient)
}
func AddKeyedTransient[U any](registrar IRoutineRegistrar, key any) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, key, nil, injection.Transient)
}
func AddVariantKeyedTransient[T, U any](registrar IRoutineRegistrar, key any) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, key, nil, injection.Transient)
}
func AddTransientFactory[U any](registrar IRoutineRegistrar, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, nil, factory, injection.Transient)
}
func AddVariantTransientFactory[T, U any](registrar IRoutineRegistrar, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, nil, factory, injection.Transient)
}
func AddKeyedTransientFactory[U any](registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[U, U](registrar, key, factory, injection.Transient)
}
func AddVariantKeyedTransientFactory[T, U any](registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U) *injection.RoutineDescriptor {
	return addKeyed[T, U](registrar, key, factory, injection.Transient)
}

// addKeyed 注册 routine，注册表已冻结或 U 无法赋值给 T 时 panic
func addKeyed[T, U any](
	registrar IRoutineRegistrar, key any, factory func(scope injection.IRoutineScope) U, lifetime injection.RoutineLifetime,
) *injection.RoutineDescriptor {
	tyKey := reflect.TypeOf((*T)(nil)).Elem()
	tyImpl := reflect.TypeOf((*U)(nil)).Elem()

	if !tyImpl.AssignableTo(tyKey) {
		panic(fmt.Errorf("routine type %v is not assignable to %v", tyImpl, tyKey))
	}
	if factory == nil && (tyImpl.Kind() != reflect.Pointer || tyImpl.Elem().Kind() != reflect.Struct) {
		panic(fmt.Errorf("routine type %v must be a struct pointer without factory", tyImpl))
	}

	if key == nil {
		key = injection.DefaultKey
	}
	var untypedFactory func(scope injection.IRoutineScope) (any, error)
	if factory == nil {
		untypedFactory = func(scope injection.IRoutineScope) (any, error) {
			instance := reflect.New(tyImpl.Elem()).Interface()
			if err := Inject(scope, instance); err != nil {
				return nil, err
			}
			return instance, nil
		}
	} else {
		untypedFactory = func(scope injection.IRoutineScope) (any, error) {
			instance := factory(scope)
			if err := Inject(scope, instance); err != nil {
				return nil, err
			}
			return instance, nil
		}
	}

	desc := &injection.RoutineDescriptor{
		Lifetime: lifetime,
		Key:      key,
		TyKey:    tyKey,
		TyImpl:   tyImpl,
		Factory:  untypedFactory,
	}
	if err := registrar.GetRoutineCollection().AddDescriptor(desc); err != nil {
		panic(err)
	}
	return desc
}
