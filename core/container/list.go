package container

import (
	"sort"

	"github.com/mogud/snowdi/core/constraints"
)

type List[T any] []T

func NewList[T any](args ...T) List[T] {
	result := make(List[T], len(args))
	copy(result, args)
	return result
}

func (list List[T]) Scan(fn func(elem T)) {
	for _, v := range list {
		fn(v)
	}
}

func (list List[T]) Len() int {
	return len(list)
}

func (list List[T]) IsEmpty() bool {
	return list.Len() == 0
}

// Copy 写时复制的列表追加前使用
func (list List[T]) Copy() List[T] {
	newList := make(List[T], list.Len())
	copy(newList, list)
	return newList
}

func (list *List[T]) Add(elem T) {
	*list = append(*list, elem)
}

func SortBy[T any](list List[T], fn func(lhs, rhs T) bool) {
	sort.Slice(list, func(i, j int) bool {
		return fn(list[i], list[j])
	})
}

func Sort[T constraints.Ordered](list List[T]) {
	SortBy(list, func(lhs, rhs T) bool { return lhs < rhs })
}
