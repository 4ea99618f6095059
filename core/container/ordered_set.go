package container

import (
	"github.com/mogud/snowdi/core/constraints"
	"github.com/tidwall/btree"
)

// OrderedSet 基于 btree 的有序集合，遍历顺序即元素升序
type OrderedSet[T constraints.Ordered] struct {
	base btree.Set[T]
}

func NewOrderedSet[T constraints.Ordered](args ...T) *OrderedSet[T] {
	result := &OrderedSet[T]{}
	for _, elem := range args {
		result.base.Insert(elem)
	}
	return result
}

func (set *OrderedSet[T]) Scan(fn func(elem T)) {
	set.base.Scan(func(key T) bool {
		fn(key)
		return true
	})
}

func (set *OrderedSet[T]) Len() int {
	return set.base.Len()
}

func (set *OrderedSet[T]) Add(elem T) {
	set.base.Insert(elem)
}

// ToList 按升序导出
func (set *OrderedSet[T]) ToList() List[T] {
	list := make(List[T], 0, set.Len())
	set.Scan(func(elem T) {
		list = append(list, elem)
	})
	return list
}
