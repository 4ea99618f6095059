package option

import (
	"reflect"
)

// IOptionInjector 由 Option[T] 实现，注入时绑定配置仓库
type IOptionInjector interface {
	bindRepository(repo *Repository)
}

var _ IOptionInjector = (*Option[int])(nil)

// Option 配置选项，每次 Get 时从仓库中按最新配置重新构造
type Option[T any] struct {
	repo *Repository
}

func (ss *Option[T]) Get() T {
	return ss.GetKeyed("")
}

func (ss *Option[T]) GetKeyed(key string) T {
	var zero T
	if ss.repo == nil {
		return zero
	}

	value := ss.repo.getOption(key, reflect.TypeOf((*T)(nil)).Elem())
	if res, ok := value.(T); ok {
		return res
	}
	return zero
}

// OnChanged 配置重载后回调
func (ss *Option[T]) OnChanged(callback func()) {
	if ss.repo == nil {
		return
	}
	ss.repo.onChanged(callback)
}

func (ss *Option[T]) bindRepository(repo *Repository) {
	ss.repo = repo
}

// NewOptionInjector 根据 *Option[T] 类型创建实例并绑定仓库
func NewOptionInjector(ty reflect.Type, repo *Repository) any {
	instance := reflect.New(ty.Elem()).Interface()
	instance.(IOptionInjector).bindRepository(repo)
	return instance
}

// New 直接构造绑定到仓库的 Option
func New[T any](repo *Repository) *Option[T] {
	return &Option[T]{repo: repo}
}
