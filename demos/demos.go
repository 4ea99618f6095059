// Package demos 依赖注入常见误用的演示
package demos

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/injection/provider"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/task"
)

type B struct{}

type A struct {
	b *B
}

func (ss *A) Construct(b *B) {
	ss.b = b
}

func (ss *A) GetB() *B {
	return ss.b
}

type SomethingDisposable struct {
	disposed *atomic.Int32
}

func (ss *SomethingDisposable) Dispose() error {
	ss.disposed.Add(1)
	slog.Infof("Disposed")
	return nil
}

type LeakReport struct {
	Created  int
	Disposed int
}

// TransientDisposablesWithoutDispose 从根 provider 反复获取 Transient 的可释放对象，
// 根 provider 不跟踪这些实例，释放根 provider 后它们依然没有被释放
func TransientDisposablesWithoutDispose(count int) (*LeakReport, error) {
	var created, disposed atomic.Int32

	collection := provider.NewRoutineCollection()
	host.AddTransientFactory[*SomethingDisposable](collection, func(scope injection.IRoutineScope) *SomethingDisposable {
		created.Add(1)
		return &SomethingDisposable{disposed: &disposed}
	})
	root := collection.BuildRoutineProvider(false)

	for i := 0; i < count; i++ {
		if _, err := injection.TryGetRoutine[*SomethingDisposable](root); err != nil {
			return nil, err
		}
	}
	if err := root.Dispose(); err != nil {
		return nil, err
	}

	return &LeakReport{Created: int(created.Load()), Disposed: int(disposed.Load())}, nil
}

type DeadLockReport struct {
	Deadlocked bool
	Err        error
}

// DeadLockWithFactories 单例 A 的工厂方法把获取 B 的工作提交到执行当前解析的同一个单 worker 协程池并同步等待，
// 协程池没有空闲 worker，解析永远无法完成；超时后释放协程池解除阻塞
func DeadLockWithFactories(timeout time.Duration) (*DeadLockReport, error) {
	pool, err := task.NewPool(1)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	collection := provider.NewRoutineCollection()
	host.AddSingleton[*B](collection)
	if err = collection.AddDescriptor(&injection.RoutineDescriptor{
		Lifetime: injection.Singleton,
		TyKey:    typeOf[*A](),
		TyImpl:   typeOf[*A](),
		Factory: func(scope injection.IRoutineScope) (any, error) {
			b, err := task.Submit(pool, func() (*B, error) {
				return injection.TryGetRoutine[*B](scope.GetProvider())
			}).Wait()
			if err != nil {
				return nil, err
			}
			return &A{b: b}, nil
		},
	}); err != nil {
		return nil, err
	}
	root := collection.BuildRoutineProvider(false)
	defer func() { _ = root.Dispose() }()

	future := task.Submit(pool, func() (*A, error) {
		return injection.TryGetRoutine[*A](root)
	})

	if _, err, ok := future.WaitTimeout(timeout); ok {
		return &DeadLockReport{Deadlocked: false, Err: err}, nil
	}

	slog.Warnf("resolving A did not finish in %v, releasing the pool", timeout)
	pool.Release()
	_, err = future.Wait()
	return &DeadLockReport{Deadlocked: true, Err: err}, nil
}

// SynchronousFactories 与 DeadLockWithFactories 注册相同的依赖，但工厂方法同步获取 B
func SynchronousFactories() (*A, error) {
	collection := provider.NewRoutineCollection()
	host.AddSingleton[*B](collection)
	host.AddSingletonFactory[*A](collection, func(scope injection.IRoutineScope) *A {
		return &A{b: injection.GetRoutine[*B](scope.GetProvider())}
	})
	root := collection.BuildRoutineProvider(true)
	defer func() { _ = root.Dispose() }()

	return injection.TryGetRoutine[*A](root)
}

// CaptiveDependency 单例 A 依赖 Scoped 的 B：开启校验时解析失败，关闭校验时 B 被 A 长期持有
func CaptiveDependency(validateScopes bool) (*A, error) {
	collection := provider.NewRoutineCollection()
	host.AddSingleton[*A](collection)
	host.AddScoped[*B](collection)
	root := collection.BuildRoutineProvider(validateScopes)
	defer func() { _ = root.Dispose() }()

	return injection.TryGetRoutine[*A](root)
}

// ScopedServiceBecomesSingleton 直接从根 provider 获取 Scoped 的 B：开启校验时失败，关闭校验时 B 成为根上的单例
func ScopedServiceBecomesSingleton(validateScopes bool) (first *B, second *B, err error) {
	collection := provider.NewRoutineCollection()
	host.AddScoped[*B](collection)
	root := collection.BuildRoutineProvider(validateScopes)
	defer func() { _ = root.Dispose() }()

	if first, err = injection.TryGetRoutine[*B](root); err != nil {
		return nil, nil, err
	}
	if second, err = injection.TryGetRoutine[*B](root); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// Describe 将演示中的错误转为易读的说明
func Describe(err error) string {
	var scopeErr *injection.InvalidScopeError
	var unregistered *injection.UnregisteredKeyError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &scopeErr):
		return fmt.Sprintf("invalid scope: %v", scopeErr)
	case errors.As(err, &unregistered):
		return fmt.Sprintf("unregistered: %v", unregistered)
	default:
		return err.Error()
	}
}
