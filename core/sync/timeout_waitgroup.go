package sync

import (
	"sync/atomic"
	"time"
)

// noCopy 嵌入后 go vet 的 copylocks 检查可发现值复制
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// TimeoutWaitGroup 可超时等待的 WaitGroup
//
//	计数归零或等待超时后进入结束状态，结束后 Add 返回 false，Done 不再生效
type TimeoutWaitGroup struct {
	noCopy noCopy

	c       chan struct{}
	counter atomic.Int32 // < 0 表示已结束
}

func NewTimeoutWaitGroup() *TimeoutWaitGroup {
	return &TimeoutWaitGroup{
		c: make(chan struct{}),
	}
}

// finish 将计数从 expected 切换到结束状态，只有成功切换的调用者负责关闭通道
func (ss *TimeoutWaitGroup) finish(expected int32) bool {
	if !ss.counter.CompareAndSwap(expected, -1) {
		return false
	}
	close(ss.c)
	return true
}

func (ss *TimeoutWaitGroup) Add(n int) bool {
	for {
		v := ss.counter.Load()
		if v < 0 {
			return false
		}
		if ss.counter.CompareAndSwap(v, v+int32(n)) {
			return true
		}
	}
}

func (ss *TimeoutWaitGroup) Done() {
	for {
		v := ss.counter.Load()
		if v <= 0 {
			return
		}
		if v == 1 {
			if ss.finish(1) {
				return
			}
			continue
		}
		if ss.counter.CompareAndSwap(v, v-1) {
			return
		}
	}
}

// IsFinished 计数已归零或已超时
func (ss *TimeoutWaitGroup) IsFinished() bool {
	return ss.counter.Load() < 0
}

// WaitTimeout 等待计数归零，超时返回 false 并结束等待组
func (ss *TimeoutWaitGroup) WaitTimeout(dur time.Duration) bool {
	for {
		v := ss.counter.Load()
		if v != 0 || ss.finish(0) {
			break
		}
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ss.c:
		return true
	case <-timer.C:
	}

	for {
		v := ss.counter.Load()
		if v < 0 {
			// 超时的同时计数恰好归零
			return true
		}
		if ss.finish(v) {
			return false
		}
	}
}

func (ss *TimeoutWaitGroup) Wait() {
	<-ss.c
}
