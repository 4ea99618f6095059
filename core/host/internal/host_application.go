package internal

import (
	"sync"
	"sync/atomic"

	"github.com/mogud/snowdi/core/host"
)

var _ host.IHostApplication = (*HostApplication)(nil)

type HostApplication struct {
	lock              sync.Mutex
	stopped           atomic.Bool
	startedListeners  []func()
	stoppedListeners  []func()
	stoppingListeners []func()
}

func NewHostApplication() *HostApplication {
	return &HostApplication{}
}

func (ss *HostApplication) OnStarted(listener func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.startedListeners = append(ss.startedListeners, listener)
}

func (ss *HostApplication) OnStopped(listener func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.stoppedListeners = append(ss.stoppedListeners, listener)
}

func (ss *HostApplication) OnStopping(listener func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.stoppingListeners = append(ss.stoppingListeners, listener)
}

func (ss *HostApplication) EmitRoutineStartedSuccess() {
	ss.emit(&ss.startedListeners)
}

func (ss *HostApplication) EmitRoutineStartedFailed() {
	ss.StopApplication()
}

func (ss *HostApplication) EmitRoutineStopped() {
	ss.emit(&ss.stoppedListeners)
}

// StopApplication 通知应用停止，只有第一次调用生效
func (ss *HostApplication) StopApplication() {
	if !ss.stopped.CompareAndSwap(false, true) {
		return
	}
	ss.emit(&ss.stoppingListeners)
}

func (ss *HostApplication) emit(listeners *[]func()) {
	ss.lock.Lock()
	copied := append([]func(){}, *listeners...)
	ss.lock.Unlock()

	for _, listener := range copied {
		listener()
	}
}
