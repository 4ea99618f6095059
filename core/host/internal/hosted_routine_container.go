package internal

import (
	"sync"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
)

var _ host.IHostedRoutineContainer = (*HostedRoutineContainer)(nil)

type HostedRoutineContainer struct {
	lock     sync.Mutex
	routines []host.IHostedRoutine
	factory  []func(provider injection.IRoutineProvider) host.IHostedRoutine
}

func (ss *HostedRoutineContainer) AddHostedRoutine(factory func(provider injection.IRoutineProvider) host.IHostedRoutine) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.factory = append(ss.factory, factory)
}

func (ss *HostedRoutineContainer) BuildHostedRoutines(provider injection.IRoutineProvider) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.routines = make([]host.IHostedRoutine, 0, len(ss.factory))
	for _, f := range ss.factory {
		ss.routines = append(ss.routines, f(provider))
	}
}

func (ss *HostedRoutineContainer) GetHostedRoutines() []host.IHostedRoutine {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.routines
}
