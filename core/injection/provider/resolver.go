package provider

import (
	"reflect"

	"github.com/mogud/snowdi/core/injection"
)

// resolveChain 记录当前解析路径，用于发现循环依赖
type resolveChain struct {
	key    descriptorKey
	parent *resolveChain
}

func (c *resolveChain) push(key descriptorKey) *resolveChain {
	return &resolveChain{key: key, parent: c}
}

func (c *resolveChain) contains(key descriptorKey) bool {
	for node := c; node != nil; node = node.parent {
		if node.key == key {
			return true
		}
	}
	return false
}

func (c *resolveChain) path(last descriptorKey) []reflect.Type {
	var path []reflect.Type
	for node := c; node != nil; node = node.parent {
		path = append([]reflect.Type{node.key.Ty}, path...)
	}
	return append(path, last.Ty)
}

var _ injection.IRoutineScope = (*resolverScope)(nil)
var _ injection.IRoutineProvider = (*resolverProvider)(nil)

// resolverScope 传给工厂方法的 scope 视图，携带解析路径
type resolverScope struct {
	scope *RoutineScope
	chain *resolveChain
}

func (ss *resolverScope) GetID() string {
	return ss.scope.GetID()
}

func (ss *resolverScope) GetRoot() injection.IRoutineScope {
	return ss.scope.GetRoot()
}

func (ss *resolverScope) GetProvider() injection.IRoutineProvider {
	return &resolverProvider{scope: ss.scope, chain: ss.chain}
}

func (ss *resolverScope) IsDisposed() bool {
	return ss.scope.IsDisposed()
}

func (ss *resolverScope) Dispose() error {
	return ss.scope.Dispose()
}

type resolverProvider struct {
	scope *RoutineScope
	chain *resolveChain
}

func (ss *resolverProvider) GetRoutine(ty reflect.Type) (any, error) {
	return ss.GetKeyedRoutine(injection.DefaultKey, ty)
}

func (ss *resolverProvider) GetKeyedRoutine(key any, ty reflect.Type) (any, error) {
	return ss.scope.resolve(key, ty, ss.chain)
}

func (ss *resolverProvider) CreateScope() injection.IRoutineScope {
	return ss.scope.createChild()
}

func (ss *resolverProvider) GetRootScope() injection.IRoutineScope {
	return ss.scope.root()
}
