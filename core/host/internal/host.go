package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/injection/provider"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
	"github.com/mogud/snowdi/core/sync"
	"github.com/mogud/snowdi/core/task"
)

var _ host.IHost = (*Host)(nil)

type HostOption struct {
	StartWaitTimeoutSeconds int `snow:"StartWaitTimeoutSeconds"`
	StopWaitTimeoutSeconds  int `snow:"StopWaitTimeoutSeconds"`
}

type Host struct {
	option   *HostOption
	logger   logging.ILogger
	provider *provider.RoutineProvider
	app      *HostApplication

	hostedRoutineContainer          host.IHostedRoutineContainer
	hostedLifecycleRoutineContainer host.IHostedLifecycleRoutineContainer
	hostedRoutines                  []host.IHostedRoutine
	hostedLifecycleRoutines         []host.IHostedLifecycleRoutine
}

func NewHost(provider *provider.RoutineProvider) *Host {
	return &Host{provider: provider}
}

func (ss *Host) Construct(
	option *option.Option[*HostOption],
	logger *logging.Logger[Host],
	app host.IHostApplication,
	hostedRoutineContainer host.IHostedRoutineContainer,
	hostedLifecycleRoutineContainer host.IHostedLifecycleRoutineContainer,
) {
	ss.option = option.Get()
	if ss.option.StartWaitTimeoutSeconds == 0 {
		ss.option.StartWaitTimeoutSeconds = 5
	}
	if ss.option.StopWaitTimeoutSeconds == 0 {
		ss.option.StopWaitTimeoutSeconds = 8
	}

	ss.logger = logger.Get(func(data *logging.LogData) {
		data.Name = "Host"
		data.ID = fmt.Sprintf("%p", ss)
	})

	ss.app, _ = app.(*HostApplication)
	ss.hostedRoutineContainer = hostedRoutineContainer
	ss.hostedLifecycleRoutineContainer = hostedLifecycleRoutineContainer
}

func (ss *Host) Start(ctx context.Context, wg *sync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	defer func() {
		if ss.app == nil {
			return
		}
		select {
		case <-ctx.Done():
			ss.app.EmitRoutineStartedFailed()
		default:
			ss.app.EmitRoutineStartedSuccess()
		}
	}()

	if ss.hostedRoutines == nil && ss.hostedRoutineContainer != nil {
		ss.hostedRoutineContainer.BuildHostedRoutines(ss.provider)
		ss.hostedRoutines = ss.hostedRoutineContainer.GetHostedRoutines()
	}
	if ss.hostedLifecycleRoutines == nil && ss.hostedLifecycleRoutineContainer != nil {
		ss.hostedLifecycleRoutineContainer.BuildHostedLifecycleRoutines(ss.provider)
		ss.hostedLifecycleRoutines = ss.hostedLifecycleRoutineContainer.GetHostedLifecycleRoutines()
	}

	timeout := time.Duration(ss.option.StartWaitTimeoutSeconds) * time.Second
	phases := []struct {
		name  string
		steps []func(ctx context.Context, wg *sync.TimeoutWaitGroup)
	}{
		{"BeforeStart", ss.lifecycleSteps(func(r host.IHostedLifecycleRoutine) phaseStep { return r.BeforeStart })},
		{"Start", ss.startStopSteps(true)},
		{"AfterStart", ss.lifecycleSteps(func(r host.IHostedLifecycleRoutine) phaseStep { return r.AfterStart })},
	}
	for _, phase := range phases {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ss.runPhase(ctx, phase.name, phase.steps, timeout)
	}
}

func (ss *Host) Stop(ctx context.Context, wg *sync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	timeout := time.Duration(ss.option.StopWaitTimeoutSeconds) * time.Second
	ss.runPhase(ctx, "BeforeStop", ss.lifecycleSteps(func(r host.IHostedLifecycleRoutine) phaseStep { return r.BeforeStop }), timeout)
	ss.runPhase(ctx, "Stop", ss.startStopSteps(false), timeout)
	ss.runPhase(ctx, "AfterStop", ss.lifecycleSteps(func(r host.IHostedLifecycleRoutine) phaseStep { return r.AfterStop }), timeout)

	if ss.app != nil {
		ss.app.EmitRoutineStopped()
	}
}

func (ss *Host) GetRoutineProvider() injection.IRoutineProvider {
	return ss.provider
}

func (ss *Host) Dispose() error {
	return ss.provider.Dispose()
}

type phaseStep = func(ctx context.Context, wg *sync.TimeoutWaitGroup)

func (ss *Host) lifecycleSteps(selector func(r host.IHostedLifecycleRoutine) phaseStep) []phaseStep {
	steps := make([]phaseStep, 0, len(ss.hostedLifecycleRoutines))
	for _, routine := range ss.hostedLifecycleRoutines {
		steps = append(steps, selector(routine))
	}
	return steps
}

func (ss *Host) startStopSteps(start bool) []phaseStep {
	steps := make([]phaseStep, 0, len(ss.hostedLifecycleRoutines)+len(ss.hostedRoutines))
	for _, routine := range ss.hostedLifecycleRoutines {
		if start {
			steps = append(steps, routine.Start)
		} else {
			steps = append(steps, routine.Stop)
		}
	}
	for _, routine := range ss.hostedRoutines {
		if start {
			steps = append(steps, routine.Start)
		} else {
			steps = append(steps, routine.Stop)
		}
	}
	return steps
}

// runPhase 并发执行同一阶段的所有步骤，等待全部完成或超时
func (ss *Host) runPhase(ctx context.Context, name string, steps []phaseStep, timeout time.Duration) {
	if len(steps) == 0 {
		return
	}

	routineWg := sync.NewTimeoutWaitGroup()
	routineWg.Add(len(steps))
	for _, step := range steps {
		step := step
		task.Execute(func() {
			defer routineWg.Done()
			step(ctx, routineWg)
		})
	}
	if !routineWg.WaitTimeout(timeout) {
		ss.logger.Warnf("'%v' wait timeout in hosted routines", name)
	}
}
