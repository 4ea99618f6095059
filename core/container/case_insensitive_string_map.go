package container

import (
	"strings"
)

type caseInsensitiveEntry[V any] struct {
	key   string
	value V
}

// CaseInsensitiveStringMap 忽略 key 大小写的字符串映射，保留最后一次写入时的 key 原文
type CaseInsensitiveStringMap[V any] struct {
	entries Map[string, caseInsensitiveEntry[V]]
}

func NewCaseInsensitiveStringMap[V any]() *CaseInsensitiveStringMap[V] {
	return &CaseInsensitiveStringMap[V]{
		entries: NewMap[string, caseInsensitiveEntry[V]](),
	}
}

func (ss *CaseInsensitiveStringMap[V]) Len() int {
	return ss.entries.Len()
}

func (ss *CaseInsensitiveStringMap[V]) Contains(key string) bool {
	return ss.entries.Contains(strings.ToUpper(key))
}

func (ss *CaseInsensitiveStringMap[V]) Get(key string) V {
	v, _ := ss.TryGet(key)
	return v
}

func (ss *CaseInsensitiveStringMap[V]) TryGet(key string) (V, bool) {
	entry, ok := ss.entries.Get(strings.ToUpper(key))
	return entry.value, ok
}

func (ss *CaseInsensitiveStringMap[V]) Add(key string, value V) {
	ss.entries.Add(strings.ToUpper(key), caseInsensitiveEntry[V]{key: key, value: value})
}

func (ss *CaseInsensitiveStringMap[V]) Remove(key string) {
	ss.entries.Remove(strings.ToUpper(key))
}

func (ss *CaseInsensitiveStringMap[V]) Scan(cb func(key string, value V)) {
	ss.entries.ScanKV(func(_ string, entry caseInsensitiveEntry[V]) {
		cb(entry.key, entry.value)
	})
}

// Keys 返回保留原始大小写的 key 列表
func (ss *CaseInsensitiveStringMap[V]) Keys() List[string] {
	keys := NewList[string]()
	ss.Scan(func(key string, _ V) {
		keys = append(keys, key)
	})
	return keys
}

// ToMap 以原始大小写的 key 导出
func (ss *CaseInsensitiveStringMap[V]) ToMap() map[string]V {
	res := make(map[string]V, ss.Len())
	ss.Scan(func(key string, value V) {
		res[key] = value
	})
	return res
}
