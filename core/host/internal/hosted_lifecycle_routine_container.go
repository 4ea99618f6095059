package internal

import (
	"sync"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
)

var _ host.IHostedLifecycleRoutineContainer = (*HostedLifecycleRoutineContainer)(nil)

type HostedLifecycleRoutineContainer struct {
	lock     sync.Mutex
	routines []host.IHostedLifecycleRoutine
	factory  []func(provider injection.IRoutineProvider) host.IHostedLifecycleRoutine
}

func (ss *HostedLifecycleRoutineContainer) AddHostedLifecycleRoutine(factory func(provider injection.IRoutineProvider) host.IHostedLifecycleRoutine) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.factory = append(ss.factory, factory)
}

func (ss *HostedLifecycleRoutineContainer) BuildHostedLifecycleRoutines(provider injection.IRoutineProvider) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.routines = make([]host.IHostedLifecycleRoutine, 0, len(ss.factory))
	for _, f := range ss.factory {
		ss.routines = append(ss.routines, f(provider))
	}
}

func (ss *HostedLifecycleRoutineContainer) GetHostedLifecycleRoutines() []host.IHostedLifecycleRoutine {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.routines
}
