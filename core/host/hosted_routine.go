package host

import (
	"context"

	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/sync"
)

type IHostedRoutine interface {
	Start(ctx context.Context, wg *sync.TimeoutWaitGroup)
	Stop(ctx context.Context, wg *sync.TimeoutWaitGroup)
}

type IHostedRoutineContainer interface {
	AddHostedRoutine(factory func(provider injection.IRoutineProvider) IHostedRoutine)
	BuildHostedRoutines(provider injection.IRoutineProvider)
	GetHostedRoutines() []IHostedRoutine
}

type IHostedLifecycleRoutine interface {
	IHostedRoutine

	BeforeStart(ctx context.Context, wg *sync.TimeoutWaitGroup)
	AfterStart(ctx context.Context, wg *sync.TimeoutWaitGroup)
	BeforeStop(ctx context.Context, wg *sync.TimeoutWaitGroup)
	AfterStop(ctx context.Context, wg *sync.TimeoutWaitGroup)
}

type IHostedLifecycleRoutineContainer interface {
	AddHostedLifecycleRoutine(factory func(provider injection.IRoutineProvider) IHostedLifecycleRoutine)
	BuildHostedLifecycleRoutines(provider injection.IRoutineProvider)
	GetHostedLifecycleRoutines() []IHostedLifecycleRoutine
}

// AddHostedRoutine 注册单例 U，并在 host 启动时启动它
func AddHostedRoutine[U IHostedRoutine](builder IBuilder) {
	AddSingleton[U](builder)
	builder.GetHostedRoutineContainer().AddHostedRoutine(func(provider injection.IRoutineProvider) IHostedRoutine {
		return injection.GetRoutine[U](provider)
	})
}

func AddHostedLifecycleRoutine[U IHostedLifecycleRoutine](builder IBuilder) {
	AddSingleton[U](builder)
	builder.GetHostedLifecycleRoutineContainer().AddHostedLifecycleRoutine(func(provider injection.IRoutineProvider) IHostedLifecycleRoutine {
		return injection.GetRoutine[U](provider)
	})
}
