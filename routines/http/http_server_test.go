package http_test

import (
	"sync/atomic"
	"testing"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/builder"
	"github.com/mogud/snowdi/core/injection"
	snowhttp "github.com/mogud/snowdi/routines/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type IService interface {
	Name() string
}

type TestService struct{}

func (ss *TestService) Name() string { return "Test" }

type ProductionService struct{}

func (ss *ProductionService) Name() string { return "Production" }

type requestResource struct {
	disposed *atomic.Int32
}

func (ss *requestResource) Dispose() error {
	ss.disposed.Add(1)
	return nil
}

func startServer(t *testing.T, b *builder.DefaultBuilder) *snowhttp.TestServer {
	t.Helper()
	server, err := snowhttp.NewTestServer(b)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, server.Close())
	})
	return server
}

func TestHelloWorld(t *testing.T) {
	b := builder.NewDefaultBuilder().ConfigureRoutines(func(b host.IBuilder) {
		snowhttp.AddServer(b, func(server *snowhttp.Server) {
			server.Run(func(ctx *fasthttp.RequestCtx) {
				_, _ = ctx.WriteString("Hello World")
			})
		})
	})
	server := startServer(t, b)

	status, body, err := server.Get("/")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, "Hello World", body)

	status, body, err = server.Get("/any/path")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", body)
}

func newServiceBuilder(environment string) *builder.DefaultBuilder {
	return builder.NewDefaultBuilder().
		UseEnvironment(environment).
		ConfigureRoutines(func(b host.IBuilder) {
			host.AddVariantScoped[IService, *ProductionService](b)
			snowhttp.AddServer(b, func(server *snowhttp.Server) {
				server.Run(func(ctx *fasthttp.RequestCtx) {
					service, err := snowhttp.GetRequestRoutine[IService](ctx)
					if err != nil {
						ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
						return
					}
					_, _ = ctx.WriteString(service.Name())
				})
			})
		}).
		ConfigureEnvironmentRoutines("Test", func(b host.IBuilder) {
			host.AddVariantScoped[IService, *TestService](b)
		})
}

func TestEnvironmentSubstitutionEndToEnd(t *testing.T) {
	_, body, err := startServer(t, newServiceBuilder("Test")).Get("/")
	require.NoError(t, err)
	assert.Equal(t, "Test", body)

	_, body, err = startServer(t, newServiceBuilder("Production")).Get("/")
	require.NoError(t, err)
	assert.Equal(t, "Production", body)
}

func TestRequestScopeDisposedPerRequest(t *testing.T) {
	var created, disposed atomic.Int32
	b := builder.NewDefaultBuilder().ConfigureRoutines(func(b host.IBuilder) {
		host.AddScopedFactory[*requestResource](b, func(scope injection.IRoutineScope) *requestResource {
			created.Add(1)
			return &requestResource{disposed: &disposed}
		})
		snowhttp.AddServer(b, func(server *snowhttp.Server) {
			server.HandleRequestMethod("/resource", fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) {
				first, err := snowhttp.GetRequestRoutine[*requestResource](ctx)
				if err != nil {
					ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
					return
				}
				second, _ := snowhttp.GetRequestRoutine[*requestResource](ctx)
				if first != second {
					ctx.Error("scoped instance differs", fasthttp.StatusInternalServerError)
					return
				}
				_, _ = ctx.WriteString("ok")
			})
		})
	})
	server := startServer(t, b)

	for i := 0; i < 3; i++ {
		status, body, err := server.Get("/resource")
		require.NoError(t, err)
		assert.Equal(t, fasthttp.StatusOK, status, body)
	}
	assert.Equal(t, int32(3), created.Load())
	assert.Equal(t, int32(3), disposed.Load())

	status, _, err := server.Post("/resource", "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestWhiteList(t *testing.T) {
	b := builder.NewDefaultBuilder().ConfigureRoutines(func(b host.IBuilder) {
		b.GetConfigurationManager().Set("Http:EnableWhiteList", "true")
		b.GetConfigurationManager().Set("Http:UncheckedPath:0", "/open")
		snowhttp.AddServer(b, func(server *snowhttp.Server) {
			server.HandleRequestMethod("/open", fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) {
				_, _ = ctx.WriteString("open")
			})
			server.HandleRequestMethod("/closed", fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) {
				_, _ = ctx.WriteString("closed")
			})
		})
	})
	server := startServer(t, b)

	status, body, err := server.Get("/open")
	require.NoError(t, err)
	assert.Equal(t, "open", body)

	status, _, err = server.Get("/closed")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusForbidden, status)
}
