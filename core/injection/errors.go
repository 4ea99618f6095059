package injection

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrScopeDisposed    = errors.New("routine scope has been disposed")
	ErrCollectionFrozen = errors.New("routine collection is frozen after the provider was built")
)

// UnregisteredKeyError 查找的 routine 从未注册
type UnregisteredKeyError struct {
	Key any
	Ty  reflect.Type
}

func (e *UnregisteredKeyError) Error() string {
	return fmt.Sprintf("routine %v with key %v is not registered", e.Ty, e.Key)
}

// InvalidScopeError 开启 scope 校验时从根 provider 获取 Scoped routine
type InvalidScopeError struct {
	Key any
	Ty  reflect.Type
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("cannot resolve scoped routine %v with key %v from root provider", e.Ty, e.Key)
}

type CircularDependencyError struct {
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	names := make([]string, 0, len(e.Path))
	for _, ty := range e.Path {
		names = append(names, ty.String())
	}
	return "circular dependency detected: " + strings.Join(names, " -> ")
}

// DisposalError 汇总一次释放过程中出现的所有错误
type DisposalError struct {
	err error
}

func NewDisposalError(err error) *DisposalError {
	return &DisposalError{err: err}
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("dispose routines: %v", e.err)
}

func (e *DisposalError) Errors() []error {
	return multierr.Errors(e.err)
}

func (e *DisposalError) Unwrap() []error {
	return e.Errors()
}
