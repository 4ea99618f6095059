package provider

import (
	"reflect"
	"sync/atomic"

	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging/slog"
)

var _ injection.IRoutineProvider = (*RoutineProvider)(nil)

type Option struct {
	ValidateScopes bool // 禁止从根 provider 获取 Scoped routine
}

type freezer interface {
	Freeze()
}

// RoutineProvider 与一个 RoutineScope 一一对应，根 provider 持有单例缓存
type RoutineProvider struct {
	descriptors injection.IRoutineCollection
	option      Option
	root        *RoutineProvider

	scope        *RoutineScope
	activeScopes atomic.Int32
}

// NewRootProvider 冻结注册表并创建根 provider
func NewRootProvider(descriptors injection.IRoutineCollection, option *Option) *RoutineProvider {
	if f, ok := descriptors.(freezer); ok {
		f.Freeze()
	}

	provider := &RoutineProvider{
		descriptors: descriptors,
	}
	if option != nil {
		provider.option = *option
	}
	provider.scope = newRoutineScope(provider, nil)
	return provider
}

func newScopedProvider(root *RoutineProvider, parent *RoutineScope) *RoutineProvider {
	provider := &RoutineProvider{
		descriptors: root.descriptors,
		option:      root.option,
		root:        root,
	}
	provider.scope = newRoutineScope(provider, parent)
	return provider
}

func (ss *RoutineProvider) GetRoutine(ty reflect.Type) (any, error) {
	return ss.GetKeyedRoutine(injection.DefaultKey, ty)
}

func (ss *RoutineProvider) GetKeyedRoutine(key any, ty reflect.Type) (any, error) {
	return ss.scope.resolve(key, ty, nil)
}

func (ss *RoutineProvider) CreateScope() injection.IRoutineScope {
	return ss.scope.createChild()
}

func (ss *RoutineProvider) GetRootScope() injection.IRoutineScope {
	return ss.getRootProvider().scope
}

// ActiveScopeCount 返回尚未释放的 scope 数量，包括嵌套的 scope
func (ss *RoutineProvider) ActiveScopeCount() int {
	return int(ss.getRootProvider().activeScopes.Load())
}

func (ss *RoutineProvider) ValidateScopes() bool {
	return ss.option.ValidateScopes
}

// Dispose 释放该 provider 对应的 scope，根 provider 会先结束所有未释放的 scope 再释放单例
func (ss *RoutineProvider) Dispose() error {
	return ss.scope.Dispose()
}

func (ss *RoutineProvider) getRootProvider() *RoutineProvider {
	if ss.root != nil {
		return ss.root
	}

	return ss
}

func (ss *RoutineProvider) isRoot() bool {
	return ss.root == nil
}

func (ss *RoutineProvider) scopeOpened(scope *RoutineScope) {
	count := ss.getRootProvider().activeScopes.Add(1)
	slog.Debugf("routine scope %v opened, active scopes: %v", scope.id, count)
}

func (ss *RoutineProvider) scopeClosed(scope *RoutineScope) {
	count := ss.getRootProvider().activeScopes.Add(-1)
	slog.Debugf("routine scope %v disposed, active scopes: %v", scope.id, count)
}
