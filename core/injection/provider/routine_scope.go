package provider

import (
	"fmt"
	"reflect"
	"sync"

	assert "github.com/arl/assertgo"
	"github.com/google/uuid"
	"github.com/mogud/snowdi/core/debug"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging/slog"
	"go.uber.org/multierr"
)

var _ injection.IRoutineScope = (*RoutineScope)(nil)

// RoutineScope 缓存本 scope 内的实例并负责释放；根 scope 缓存单例
type RoutineScope struct {
	id       string
	provider *RoutineProvider
	parent   *RoutineScope

	lock        sync.Mutex
	disposed    bool
	instances   map[descriptorKey]any
	guards      map[descriptorKey]*sync.Mutex
	disposables []injection.IDisposable
	children    []*RoutineScope
}

func newRoutineScope(provider *RoutineProvider, parent *RoutineScope) *RoutineScope {
	return &RoutineScope{
		id:        uuid.NewString(),
		provider:  provider,
		parent:    parent,
		instances: make(map[descriptorKey]any),
		guards:    make(map[descriptorKey]*sync.Mutex),
	}
}

func (ss *RoutineScope) GetID() string {
	return ss.id
}

func (ss *RoutineScope) GetRoot() injection.IRoutineScope {
	return ss.root()
}

func (ss *RoutineScope) GetProvider() injection.IRoutineProvider {
	return ss.provider
}

func (ss *RoutineScope) IsDisposed() bool {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.disposed
}

// Dispose 先释放子 scope，再按创建的逆序释放本 scope 跟踪的实例，重复调用无效果
func (ss *RoutineScope) Dispose() error {
	ss.lock.Lock()
	if ss.disposed {
		ss.lock.Unlock()
		return nil
	}
	ss.disposed = true
	children := ss.children
	disposables := ss.disposables
	ss.children = nil
	ss.disposables = nil
	ss.instances = make(map[descriptorKey]any)
	ss.lock.Unlock()

	var errs error
	for i := len(children) - 1; i >= 0; i-- {
		errs = appendDisposalError(errs, children[i].Dispose())
	}

	// 同一指针可能以多个类型注册，只释放一次；值类型每个都是独立实例
	seen := make(map[uintptr]struct{}, len(disposables))
	for i := len(disposables) - 1; i >= 0; i-- {
		disposable := disposables[i]
		if v := reflect.ValueOf(disposable); v.Kind() == reflect.Pointer {
			if _, ok := seen[v.Pointer()]; ok {
				continue
			}
			seen[v.Pointer()] = struct{}{}
		}
		errs = multierr.Append(errs, safeDispose(disposable))
	}

	if ss.parent != nil {
		ss.parent.removeChild(ss)
		ss.provider.scopeClosed(ss)
	}

	if errs != nil {
		return injection.NewDisposalError(errs)
	}
	return nil
}

func (ss *RoutineScope) root() *RoutineScope {
	return ss.provider.getRootProvider().scope
}

func (ss *RoutineScope) createChild() injection.IRoutineScope {
	child := newScopedProvider(ss.provider.getRootProvider(), ss).scope

	ss.lock.Lock()
	if ss.disposed {
		ss.lock.Unlock()
		child.disposed = true
		return child
	}
	ss.children = append(ss.children, child)
	ss.lock.Unlock()

	ss.provider.scopeOpened(child)
	return child
}

func (ss *RoutineScope) removeChild(child *RoutineScope) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	for i, c := range ss.children {
		if c == child {
			ss.children = append(ss.children[:i], ss.children[i+1:]...)
			return
		}
	}
}

func (ss *RoutineScope) resolve(key any, ty reflect.Type, chain *resolveChain) (any, error) {
	if key == nil {
		key = injection.DefaultKey
	}
	if ss.IsDisposed() {
		return nil, fmt.Errorf("resolve routine %v: %w", ty, injection.ErrScopeDisposed)
	}

	descriptor := ss.provider.descriptors.GetKeyedDescriptor(key, ty)
	if descriptor == nil {
		return nil, &injection.UnregisteredKeyError{Key: key, Ty: ty}
	}

	dk := descriptorKey{Key: key, Ty: ty}
	if chain.contains(dk) {
		return nil, &injection.CircularDependencyError{Path: chain.path(dk)}
	}
	next := chain.push(dk)

	switch descriptor.Lifetime {
	case injection.Singleton:
		return ss.root().getOrCreate(descriptor, dk, next)
	case injection.Scoped:
		if ss.provider.isRoot() && ss.provider.option.ValidateScopes {
			return nil, &injection.InvalidScopeError{Key: key, Ty: ty}
		}
		return ss.getOrCreate(descriptor, dk, next)
	default:
		instance, err := ss.construct(descriptor, next)
		if err != nil {
			return nil, err
		}
		// 根 provider 不跟踪 Transient 实例，由调用方负责释放
		if ss.provider.isRoot() {
			return instance, nil
		}
		if err = ss.track(descriptor, instance); err != nil {
			return nil, err
		}
		return instance, nil
	}
}

func (ss *RoutineScope) getOrCreate(descriptor *injection.RoutineDescriptor, dk descriptorKey, chain *resolveChain) (any, error) {
	ss.lock.Lock()
	if instance, ok := ss.instances[dk]; ok {
		ss.lock.Unlock()
		return instance, nil
	}
	guard, ok := ss.guards[dk]
	if !ok {
		guard = &sync.Mutex{}
		ss.guards[dk] = guard
	}
	ss.lock.Unlock()

	guard.Lock()
	defer guard.Unlock()

	ss.lock.Lock()
	if instance, ok := ss.instances[dk]; ok {
		ss.lock.Unlock()
		return instance, nil
	}
	ss.lock.Unlock()

	instance, err := ss.construct(descriptor, chain)
	if err != nil {
		return nil, err
	}

	ss.lock.Lock()
	if ss.disposed {
		ss.lock.Unlock()
		return nil, disposeLate(descriptor, instance)
	}
	ss.instances[dk] = instance
	if disposable, ok := instance.(injection.IDisposable); ok {
		ss.disposables = append(ss.disposables, disposable)
	}
	ss.lock.Unlock()
	return instance, nil
}

func (ss *RoutineScope) construct(descriptor *injection.RoutineDescriptor, chain *resolveChain) (instance any, err error) {
	assert.True(descriptor.Factory != nil)

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			instance, err = nil, fmt.Errorf("construct routine %v: %w", descriptor, e)
		}
	}()

	instance, err = descriptor.Factory(&resolverScope{scope: ss, chain: chain})
	if err != nil {
		return nil, fmt.Errorf("construct routine %v: %w", descriptor, err)
	}
	return instance, nil
}

func (ss *RoutineScope) track(descriptor *injection.RoutineDescriptor, instance any) error {
	disposable, ok := instance.(injection.IDisposable)
	if !ok {
		return nil
	}

	ss.lock.Lock()
	if ss.disposed {
		ss.lock.Unlock()
		return disposeLate(descriptor, instance)
	}
	ss.disposables = append(ss.disposables, disposable)
	ss.lock.Unlock()
	return nil
}

func disposeLate(descriptor *injection.RoutineDescriptor, instance any) error {
	err := fmt.Errorf("construct routine %v: %w", descriptor, injection.ErrScopeDisposed)
	if disposable, ok := instance.(injection.IDisposable); ok {
		err = multierr.Append(err, safeDispose(disposable))
	}
	return err
}

func safeDispose(disposable injection.IDisposable) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Errorf("dispose %T panic: %v\n%v", disposable, r, debug.StackInfo())
			err = fmt.Errorf("dispose %T panic: %v", disposable, r)
		}
	}()
	return disposable.Dispose()
}

func appendDisposalError(errs error, err error) error {
	if de, ok := err.(*injection.DisposalError); ok {
		return multierr.Append(errs, multierr.Combine(de.Errors()...))
	}
	return multierr.Append(errs, err)
}
