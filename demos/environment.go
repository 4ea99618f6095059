package demos

import (
	"reflect"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/builder"
	"github.com/mogud/snowdi/core/injection"
	snowhttp "github.com/mogud/snowdi/routines/http"
	"github.com/valyala/fasthttp"
)

const TestEnvironment = "Test"

type IService interface {
	GetData() string
}

type ProductionService struct{}

func (ss *ProductionService) GetData() string {
	return "Production"
}

type TestService struct{}

func (ss *TestService) GetData() string {
	return "Test"
}

// NewServiceBuilder 默认注册 ProductionService，Test 环境下替换为 TestService
func NewServiceBuilder(environment string) *builder.DefaultBuilder {
	return builder.NewDefaultBuilder().
		UseEnvironment(environment).
		ConfigureRoutines(func(b host.IBuilder) {
			host.AddVariantSingleton[IService, *ProductionService](b)
		}).
		ConfigureEnvironmentRoutines(TestEnvironment, func(b host.IBuilder) {
			host.AddVariantSingleton[IService, *TestService](b)
		})
}

// EnvironmentSubstitution 返回指定环境下 IService 的数据
func EnvironmentSubstitution(environment string) (string, error) {
	h := NewServiceBuilder(environment).Build()
	defer func() { _ = h.Dispose() }()

	service, err := injection.TryGetRoutine[IService](h.GetRoutineProvider())
	if err != nil {
		return "", err
	}
	return service.GetData(), nil
}

// HelloWorldPipeline 所有请求都由终结处理器返回 "Hello World"
func HelloWorldPipeline() (string, error) {
	b := builder.NewDefaultBuilder().ConfigureRoutines(func(b host.IBuilder) {
		snowhttp.AddServer(b, func(server *snowhttp.Server) {
			server.Run(func(ctx *fasthttp.RequestCtx) {
				_, _ = ctx.WriteString("Hello World")
			})
		})
	})
	return getOnce(b)
}

// EnvironmentPipeline 终结处理器返回当前环境下 IService 的数据
func EnvironmentPipeline(environment string) (string, error) {
	b := NewServiceBuilder(environment).ConfigureRoutines(func(b host.IBuilder) {
		snowhttp.AddServer(b, func(server *snowhttp.Server) {
			server.Run(func(ctx *fasthttp.RequestCtx) {
				service, err := snowhttp.GetRequestRoutine[IService](ctx)
				if err != nil {
					ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
					return
				}
				_, _ = ctx.WriteString(service.GetData())
			})
		})
	})
	return getOnce(b)
}

func getOnce(b host.IBuilder) (body string, err error) {
	server, err := snowhttp.NewTestServer(b)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := server.Close(); err == nil {
			err = closeErr
		}
	}()

	_, body, err = server.Get("/")
	return body, err
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
