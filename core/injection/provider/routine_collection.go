package provider

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/mogud/snowdi/core/injection"
)

var _ injection.IRoutineCollection = (*RoutineCollection)(nil)

type descriptorKey struct {
	Key any
	Ty  reflect.Type
}

// RoutineCollection routine 注册表，同一 Key 与类型重复注册时以最后一次为准
type RoutineCollection struct {
	lock sync.Mutex

	frozen      bool
	descriptors map[descriptorKey]*injection.RoutineDescriptor
	order       []descriptorKey
}

func NewRoutineCollection() *RoutineCollection {
	return &RoutineCollection{
		descriptors: make(map[descriptorKey]*injection.RoutineDescriptor),
	}
}

func (ss *RoutineCollection) AddDescriptor(descriptor *injection.RoutineDescriptor) error {
	if descriptor.TyKey == nil || descriptor.Factory == nil {
		return fmt.Errorf("invalid routine descriptor: %v", descriptor)
	}
	if descriptor.Key == nil {
		descriptor.Key = injection.DefaultKey
	}

	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.frozen {
		return fmt.Errorf("add routine %v: %w", descriptor, injection.ErrCollectionFrozen)
	}

	dk := descriptorKey{Key: descriptor.Key, Ty: descriptor.TyKey}
	if _, ok := ss.descriptors[dk]; ok {
		for i, key := range ss.order {
			if key == dk {
				ss.order = append(ss.order[:i], ss.order[i+1:]...)
				break
			}
		}
	}
	ss.descriptors[dk] = descriptor
	ss.order = append(ss.order, dk)
	return nil
}

// GetDescriptors 按最后一次注册的先后顺序返回生效的描述
func (ss *RoutineCollection) GetDescriptors() []*injection.RoutineDescriptor {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	descriptors := make([]*injection.RoutineDescriptor, 0, len(ss.order))
	for _, key := range ss.order {
		descriptors = append(descriptors, ss.descriptors[key])
	}
	return descriptors
}

func (ss *RoutineCollection) GetDescriptor(ty reflect.Type) *injection.RoutineDescriptor {
	return ss.GetKeyedDescriptor(injection.DefaultKey, ty)
}

func (ss *RoutineCollection) GetKeyedDescriptor(key any, ty reflect.Type) *injection.RoutineDescriptor {
	if key == nil {
		key = injection.DefaultKey
	}

	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.descriptors[descriptorKey{Key: key, Ty: ty}]
}

// GetRoutineCollection 使注册表可以直接用于 host 的注册方法
func (ss *RoutineCollection) GetRoutineCollection() injection.IRoutineCollection {
	return ss
}

// Freeze 冻结注册表，之后的注册都会失败
func (ss *RoutineCollection) Freeze() {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.frozen = true
}

func (ss *RoutineCollection) IsFrozen() bool {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.frozen
}

// BuildRoutineProvider 冻结注册表并创建根 provider
func (ss *RoutineCollection) BuildRoutineProvider(validateScopes bool) *RoutineProvider {
	return NewRootProvider(ss, &Option{ValidateScopes: validateScopes})
}
