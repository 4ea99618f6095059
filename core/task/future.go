package task

import (
	"time"
)

// Future 异步任务结果
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (ss *Future[T]) complete(value T, err error) {
	ss.value = value
	ss.err = err
	close(ss.done)
}

// Wait 阻塞等待结果
//
//	注意：若调用方本身运行在 Future 所属的有界池中，且池内已无空闲 worker，Wait 将永远无法返回
func (ss *Future[T]) Wait() (T, error) {
	<-ss.done
	return ss.value, ss.err
}

// WaitTimeout 等待结果，超时返回 ok == false
func (ss *Future[T]) WaitTimeout(dur time.Duration) (value T, err error, ok bool) {
	select {
	case <-ss.done:
		return ss.value, ss.err, true
	case <-time.After(dur):
		return value, nil, false
	}
}

func (ss *Future[T]) Done() <-chan struct{} {
	return ss.done
}

// Submit 将 f 提交到 pool 执行；提交失败时 Future 直接以该错误完成
func Submit[T any](pool *Pool, f func() (T, error)) *Future[T] {
	future := newFuture[T]()
	err := pool.Execute(func() {
		future.complete(f())
	})
	if err != nil {
		var zero T
		future.complete(zero, err)
	}
	return future
}

// Go 在默认协程池中执行 f
func Go[T any](f func() (T, error)) *Future[T] {
	return Submit(getDefaultPool(), f)
}
