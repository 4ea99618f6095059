package container

type Map[T comparable, U any] map[T]U

func NewMap[T comparable, U any]() Map[T, U] {
	return Map[T, U]{}
}

func (m Map[T, U]) ScanKV(fn func(k T, v U)) {
	for k, v := range m {
		fn(k, v)
	}
}

func (m Map[T, U]) Len() int {
	return len(m)
}

func (m Map[T, U]) Contains(key T) bool {
	_, ok := m[key]
	return ok
}

func (m Map[T, U]) Get(key T) (U, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Map[T, U]) Add(key T, value U) {
	m[key] = value
}

func (m Map[T, U]) Remove(key T) {
	delete(m, key)
}

func (m Map[T, U]) Keys() List[T] {
	result := make(List[T], 0, m.Len())
	for k := range m {
		result = append(result, k)
	}
	return result
}
