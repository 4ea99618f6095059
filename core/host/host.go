package host

import (
	"context"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/option"
	"github.com/mogud/snowdi/core/sync"
)

type IHost interface {
	IHostedRoutine

	GetRoutineProvider() injection.IRoutineProvider
	// Dispose 释放根 provider，结束所有 scope 与单例
	Dispose() error
}

// IRoutineRegistrar 可以注册 routine 的对象，builder 与 routine 注册表都满足该接口
type IRoutineRegistrar interface {
	GetRoutineCollection() injection.IRoutineCollection
}

type IBuilder interface {
	IRoutineRegistrar

	GetConfigurationManager() configuration.IConfigurationManager
	GetOptionRepository() *option.Repository
	GetLogFormatterContainer() *logging.LogFormatterContainer
	GetHostedRoutineContainer() IHostedRoutineContainer
	GetHostedLifecycleRoutineContainer() IHostedLifecycleRoutineContainer
	GetEnvironment() IHostEnvironment
	Build() IHost
}

type IHostApplication interface {
	OnStarted(listener func())
	OnStopped(listener func())
	OnStopping(listener func())

	StopApplication()
}

// Run 启动 host，直到应用停止后依次停止 host 并释放所有 routine
func Run(h IHost) {
	app := injection.GetRoutine[IHostApplication](h.GetRoutineProvider())
	ctx, cancel := context.WithCancel(context.Background())

	started := false
	app.OnStopping(func() {
		cancel()
	})
	app.OnStarted(func() {
		started = true
	})

	wg := sync.NewTimeoutWaitGroup()
	h.Start(ctx, wg)
	wg.Wait()

	<-ctx.Done()

	if started {
		wg = sync.NewTimeoutWaitGroup()
		h.Stop(context.Background(), wg)
		wg.Wait()
	}

	if err := h.Dispose(); err != nil {
		slog.Errorf("dispose host failed: %v", err)
	}
}

func AddOption[T any](builder IBuilder, path string) {
	option.BindOptionPath[T](builder.GetOptionRepository(), path)
}

func AddKeyedOption[T any](builder IBuilder, key string, path string) {
	option.BindKeyedOptionPath[T](builder.GetOptionRepository(), key, path)
}

func AddOptionFactory[T any](builder IBuilder, factory func() T) {
	option.BindOptionValue[T](builder.GetOptionRepository(), factory())
}

func AddKeyedOptionFactory[T any](builder IBuilder, key string, factory func() T) {
	option.BindKeyedOptionValue[T](builder.GetOptionRepository(), key, factory())
}

func AddLogFormatter(builder IBuilder, name string, formatter func(logData *logging.LogData) string) {
	builder.GetLogFormatterContainer().AddFormatter(name, formatter)
}
