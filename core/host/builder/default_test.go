package builder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/builder"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
	"github.com/mogud/snowdi/core/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type IService interface {
	Name() string
}

type TestService struct{}

func (ss *TestService) Name() string { return "Test" }

type ProductionService struct{}

func (ss *ProductionService) Name() string { return "Production" }

func newBuilder(environment string) *builder.DefaultBuilder {
	return builder.NewDefaultBuilder().
		UseEnvironment(environment).
		ConfigureRoutines(func(b host.IBuilder) {
			host.AddVariantSingleton[IService, *ProductionService](b)
		}).
		ConfigureEnvironmentRoutines("Test", func(b host.IBuilder) {
			host.AddVariantSingleton[IService, *TestService](b)
		})
}

func TestEnvironmentSubstitution(t *testing.T) {
	for env, expected := range map[string]string{
		"Test":        "Test",
		"test":        "Test",
		"Production":  "Production",
		"Development": "Production",
	} {
		h := newBuilder(env).Build()
		assert.Equal(t, expected, injection.GetRoutine[IService](h.GetRoutineProvider()).Name(), env)
		require.NoError(t, h.Dispose())
	}
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	b := builder.NewDefaultBuilder().UseEnvironment("Staging").UseContentRoot(dir).UseApplicationName("demo")
	h := b.Build()

	env := injection.GetRoutine[host.IHostEnvironment](h.GetRoutineProvider())
	assert.True(t, env.IsStaging())
	assert.False(t, env.IsProduction())
	assert.Equal(t, dir, env.GetContentRootPath())
	assert.Equal(t, "demo", env.GetApplicationName())
}

func TestEnvironmentFromProcess(t *testing.T) {
	t.Setenv("SNOW_Environment", "Test")

	h := builder.NewDefaultBuilder().
		ConfigureEnvironmentRoutines("Test", func(b host.IBuilder) {
			host.AddVariantSingleton[IService, *TestService](b)
		}).
		Build()
	assert.Equal(t, "Test", injection.GetRoutine[IService](h.GetRoutineProvider()).Name())
	assert.True(t, injection.GetRoutine[host.IHostEnvironment](h.GetRoutineProvider()).IsEnvironment("test"))
}

type scopedService struct{}

func TestValidateScopesDefault(t *testing.T) {
	build := func(b *builder.DefaultBuilder) host.IHost {
		return b.ConfigureRoutines(func(b host.IBuilder) {
			host.AddScoped[*scopedService](b)
		}).Build()
	}

	h := build(builder.NewDefaultBuilder().UseEnvironment(host.Development))
	_, err := injection.TryGetRoutine[*scopedService](h.GetRoutineProvider())
	var scopeErr *injection.InvalidScopeError
	assert.ErrorAs(t, err, &scopeErr)

	h = build(builder.NewDefaultBuilder().UseEnvironment(host.Production))
	_, err = injection.TryGetRoutine[*scopedService](h.GetRoutineProvider())
	assert.NoError(t, err)

	h = build(builder.NewDefaultBuilder().UseEnvironment(host.Production).ValidateScopes(true))
	_, err = injection.TryGetRoutine[*scopedService](h.GetRoutineProvider())
	assert.ErrorAs(t, err, &scopeErr)
}

type greeterOption struct {
	Greeting string `snow:"Greeting"`
}

type greeter struct {
	greeting string
	logger   logging.ILogger
	service  IService
}

func (ss *greeter) Construct(opt *option.Option[*greeterOption], logger *logging.Logger[greeter], service IService) {
	ss.greeting = opt.Get().Greeting
	ss.logger = logger.Get(nil)
	ss.service = service
}

func TestConstructInjection(t *testing.T) {
	b := newBuilder("Test")
	b.GetConfigurationManager().Set("Greeter:Greeting", "hello")
	b.ConfigureRoutines(func(b host.IBuilder) {
		host.AddOption[*greeterOption](b, "Greeter")
		host.AddSingleton[*greeter](b)
	})
	h := b.Build()

	g := injection.GetRoutine[*greeter](h.GetRoutineProvider())
	assert.Equal(t, "hello", g.greeting)
	assert.NotNil(t, g.logger)
	assert.Equal(t, "Test", g.service.Name())
}

type failingConstruct struct{}

var errConstruct = errors.New("construct failed")

func (ss *failingConstruct) Construct() error {
	return errConstruct
}

func TestConstructError(t *testing.T) {
	h := builder.NewDefaultBuilder().ConfigureRoutines(func(b host.IBuilder) {
		host.AddTransient[*failingConstruct](b)
	}).Build()

	_, err := injection.TryGetRoutine[*failingConstruct](h.GetRoutineProvider())
	assert.ErrorIs(t, err, errConstruct)
}

func TestRegistrationAfterBuildPanics(t *testing.T) {
	b := builder.NewDefaultBuilder()
	b.Build()

	assert.Panics(t, func() {
		host.AddSingleton[*scopedService](b)
	})
	assert.Panics(t, func() {
		host.AddVariantSingleton[IService, *scopedService](builder.NewDefaultBuilder())
	})
}

type lifecycle struct {
	events chan string
}

func (ss *lifecycle) Construct() {
	ss.events = make(chan string, 8)
}

func (ss *lifecycle) Start(_ context.Context, _ *sync.TimeoutWaitGroup) {
	ss.events <- "start"
}

func (ss *lifecycle) Stop(_ context.Context, _ *sync.TimeoutWaitGroup) {
	ss.events <- "stop"
}

func (ss *lifecycle) Dispose() error {
	ss.events <- "dispose"
	return nil
}

func TestHostLifecycle(t *testing.T) {
	b := builder.NewDefaultBuilder().ConfigureRoutines(func(b host.IBuilder) {
		host.AddHostedRoutine[*lifecycle](b)
	})
	h := b.Build()
	routine := injection.GetRoutine[*lifecycle](h.GetRoutineProvider())

	app := injection.GetRoutine[host.IHostApplication](h.GetRoutineProvider())
	started := make(chan struct{})
	app.OnStarted(func() { close(started) })

	done := make(chan struct{})
	go func() {
		host.Run(h)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("host not started")
	}
	app.StopApplication()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("host not stopped")
	}
	assert.Equal(t, "start", <-routine.events)
	assert.Equal(t, "stop", <-routine.events)
	assert.Equal(t, "dispose", <-routine.events)
}
