package container_test

import (
	"testing"

	"github.com/mogud/snowdi/core/container"
	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	list := container.NewList(3, 1, 2)
	list.Add(5)
	assert.Equal(t, 4, list.Len())

	sum := 0
	list.Scan(func(elem int) { sum += elem })
	assert.Equal(t, 11, sum)

	copied := list.Copy()
	container.Sort(copied)
	assert.Equal(t, container.List[int]{1, 2, 3, 5}, copied)
	assert.Equal(t, container.List[int]{3, 1, 2, 5}, list)

	container.SortBy(copied, func(lhs, rhs int) bool { return lhs > rhs })
	assert.Equal(t, container.List[int]{5, 3, 2, 1}, copied)

	assert.True(t, container.NewList[int]().IsEmpty())
}

func TestMap(t *testing.T) {
	m := container.NewMap[int, string]()
	m.Add(1, "ab")
	m.Add(2, "ac")
	m.Add(3, "xd")

	assert.True(t, m.Contains(3))
	v, ok := m.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "xd", v)

	keys := m.Keys()
	container.Sort(keys)
	assert.Equal(t, container.List[int]{1, 2, 3}, keys)

	m.Remove(3)
	assert.Equal(t, 2, m.Len())
	_, ok = m.Get(3)
	assert.False(t, ok)

	visited := 0
	m.ScanKV(func(k int, v string) { visited += k })
	assert.Equal(t, 3, visited)
}

func TestOrderedSet(t *testing.T) {
	set := container.NewOrderedSet("c", "a", "b", "a")
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, container.List[string]{"a", "b", "c"}, set.ToList())

	set.Add("0")
	set.Add("b")
	assert.Equal(t, container.List[string]{"0", "a", "b", "c"}, set.ToList())
}
