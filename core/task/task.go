package task

import (
	"fmt"
	"sync"

	assert "github.com/arl/assertgo"
	"github.com/panjf2000/ants/v2"
)

const defaultPoolSize = 100000

var defaultPool *Pool
var defaultPoolOnce sync.Once

// Pool 有界协程池，同时运行的任务数不超过 size；池满时提交者阻塞等待空闲 worker
type Pool struct {
	p *ants.PoolWithFunc
}

func NewPool(size int) (*Pool, error) {
	assert.True(size > 0)

	p, err := ants.NewPoolWithFunc(size, func(f any) {
		(f.(func()))()
	})
	if err != nil {
		return nil, fmt.Errorf("create goroutine pool(%d): %w", size, err)
	}
	return &Pool{p: p}, nil
}

// Execute 提交任务，池满时阻塞直到有 worker 空闲或池被释放
func (ss *Pool) Execute(f func()) error {
	return ss.p.Invoke(f)
}

func (ss *Pool) Running() int {
	return ss.p.Running()
}

func (ss *Pool) Waiting() int {
	return ss.p.Waiting()
}

// Release 关闭协程池，阻塞中的提交者会得到 ants.ErrPoolClosed
func (ss *Pool) Release() {
	ss.p.Release()
}

func getDefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		var err error
		defaultPool, err = NewPool(defaultPoolSize)
		if err != nil {
			panic(fmt.Sprintf("init goroutine pool: %v", err))
		}
	})
	return defaultPool
}

// Execute 在默认协程池中执行 f
func Execute(f func()) {
	if err := getDefaultPool().Execute(f); err != nil {
		go f()
	}
}
