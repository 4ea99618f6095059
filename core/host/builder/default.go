package builder

import (
	"strings"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/configuration/sources"
	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/internal"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/injection/provider"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/handler"
	"github.com/mogud/snowdi/core/logging/handler/compound"
	"github.com/mogud/snowdi/core/logging/handler/console"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/option"
)

const EnvironmentPrefix = "SNOW_"

var _ host.IBuilder = (*DefaultBuilder)(nil)

type environmentConfigurator struct {
	environment string
	configure   func(builder host.IBuilder)
}

// DefaultBuilder 默认 host 构建器
//
// 配置依次来自 .env 文件与带 SNOW_ 前缀的环境变量；Build 时先执行 ConfigureRoutines 注册的回调，
// 再执行与当前环境匹配的 ConfigureEnvironmentRoutines 回调，后注册的 routine 覆盖先注册的。
type DefaultBuilder struct {
	descriptors *provider.RoutineCollection
	config      *configuration.Manager
	repo        *option.Repository
	formatters  *logging.LogFormatterContainer

	hostedRoutines          *internal.HostedRoutineContainer
	hostedLifecycleRoutines *internal.HostedLifecycleRoutineContainer

	validateScopes           *bool
	configurators            []func(builder host.IBuilder)
	environmentConfigurators []environmentConfigurator

	provider *provider.RoutineProvider
}

func NewDefaultBuilder() *DefaultBuilder {
	config := configuration.NewManager()
	config.AddSource(&sources.EnvironmentConfigurationSource{
		Prefix:      EnvironmentPrefix,
		DotEnvFiles: []string{".env"},
	})

	builder := &DefaultBuilder{
		descriptors:             provider.NewRoutineCollection(),
		config:                  config,
		repo:                    option.NewOptionRepository(config),
		formatters:              logging.NewLogFormatterRepository(),
		hostedRoutines:          &internal.HostedRoutineContainer{},
		hostedLifecycleRoutines: &internal.HostedLifecycleRoutineContainer{},
	}

	builder.formatters.AddFormatter("Default", logging.DefaultLogFormatter)
	builder.formatters.AddFormatter("Color", logging.ColorLogFormatter)

	host.AddVariantSingletonFactory[configuration.IConfiguration](builder, func(scope injection.IRoutineScope) configuration.IConfiguration {
		return builder.config
	})
	host.AddSingletonFactory[*option.Repository](builder, func(scope injection.IRoutineScope) *option.Repository {
		return builder.repo
	})
	host.AddSingletonFactory[*logging.LogFormatterContainer](builder, func(scope injection.IRoutineScope) *logging.LogFormatterContainer {
		return builder.formatters
	})
	host.AddSingletonFactory[host.IHostEnvironment](builder, func(scope injection.IRoutineScope) host.IHostEnvironment {
		return builder.GetEnvironment()
	})

	host.AddOption[*compound.Option](builder, "Log:Compound")
	host.AddSingletonFactory[*compound.Handler](builder, func(scope injection.IRoutineScope) *compound.Handler {
		return compound.NewHandler()
	})
	host.AddOption[*console.Option](builder, "Log:Console")
	host.AddSingletonFactory[*console.Handler](builder, func(scope injection.IRoutineScope) *console.Handler {
		return console.NewHandler()
	})
	host.AddSingletonFactory[*handler.RootHandler](builder, func(scope injection.IRoutineScope) *handler.RootHandler {
		compoundH := injection.GetRoutine[*compound.Handler](scope.GetProvider())
		compoundH.AddHandler(injection.GetRoutine[*console.Handler](scope.GetProvider()))

		rootHandler := handler.NewRootHandler(compoundH)
		slog.BindGlobalHandler(rootHandler)
		return rootHandler
	})

	host.AddSingletonFactory[host.IHostedRoutineContainer](builder, func(scope injection.IRoutineScope) host.IHostedRoutineContainer {
		return builder.hostedRoutines
	})
	host.AddSingletonFactory[host.IHostedLifecycleRoutineContainer](builder, func(scope injection.IRoutineScope) host.IHostedLifecycleRoutineContainer {
		return builder.hostedLifecycleRoutines
	})

	return builder
}

// UseEnvironment 指定运行环境，覆盖环境变量中的配置
func (ss *DefaultBuilder) UseEnvironment(environment string) *DefaultBuilder {
	ss.useSetting(host.EnvironmentKey, environment)
	return ss
}

func (ss *DefaultBuilder) UseContentRoot(path string) *DefaultBuilder {
	ss.useSetting(host.ContentRootKey, path)
	return ss
}

func (ss *DefaultBuilder) UseApplicationName(name string) *DefaultBuilder {
	ss.useSetting(host.ApplicationNameKey, name)
	return ss
}

// ValidateScopes 指定是否禁止从根 provider 获取 Scoped routine，未指定时仅在 Development 环境开启
func (ss *DefaultBuilder) ValidateScopes(validate bool) *DefaultBuilder {
	ss.validateScopes = &validate
	return ss
}

func (ss *DefaultBuilder) ConfigureRoutines(configure func(builder host.IBuilder)) *DefaultBuilder {
	ss.configurators = append(ss.configurators, configure)
	return ss
}

// ConfigureEnvironmentRoutines 仅在当前环境与 environment 相同（忽略大小写）时执行 configure
func (ss *DefaultBuilder) ConfigureEnvironmentRoutines(environment string, configure func(builder host.IBuilder)) *DefaultBuilder {
	ss.environmentConfigurators = append(ss.environmentConfigurators, environmentConfigurator{
		environment: environment,
		configure:   configure,
	})
	return ss
}

func (ss *DefaultBuilder) GetRoutineCollection() injection.IRoutineCollection {
	return ss.descriptors
}

func (ss *DefaultBuilder) GetConfigurationManager() configuration.IConfigurationManager {
	return ss.config
}

func (ss *DefaultBuilder) GetOptionRepository() *option.Repository {
	return ss.repo
}

func (ss *DefaultBuilder) GetLogFormatterContainer() *logging.LogFormatterContainer {
	return ss.formatters
}

func (ss *DefaultBuilder) GetHostedRoutineContainer() host.IHostedRoutineContainer {
	return ss.hostedRoutines
}

func (ss *DefaultBuilder) GetHostedLifecycleRoutineContainer() host.IHostedLifecycleRoutineContainer {
	return ss.hostedLifecycleRoutines
}

func (ss *DefaultBuilder) GetEnvironment() host.IHostEnvironment {
	return internal.NewHostEnvironment(ss.config)
}

// GetRoutineProvider Build 之前返回 nil
func (ss *DefaultBuilder) GetRoutineProvider() *provider.RoutineProvider {
	return ss.provider
}

func (ss *DefaultBuilder) Build() host.IHost {
	if ss.provider != nil {
		return injection.GetRoutine[host.IHost](ss.provider)
	}

	environment := ss.GetEnvironment()
	for _, configure := range ss.configurators {
		configure(ss)
	}
	for _, configurator := range ss.environmentConfigurators {
		if strings.EqualFold(configurator.environment, environment.GetEnvironmentName()) {
			configurator.configure(ss)
		}
	}

	host.AddOption[*internal.HostOption](ss, "Host")
	host.AddSingletonFactory[host.IHostApplication](ss, func(scope injection.IRoutineScope) host.IHostApplication {
		return internal.NewHostApplication()
	})
	host.AddSingletonFactory[host.IHost](ss, func(scope injection.IRoutineScope) host.IHost {
		return internal.NewHost(ss.provider)
	})
	host.AddHostedRoutine[*internal.ConsoleLifetimeRoutine](ss)

	validateScopes := environment.IsDevelopment()
	if ss.validateScopes != nil {
		validateScopes = *ss.validateScopes
	}
	ss.provider = ss.descriptors.BuildRoutineProvider(validateScopes)
	slog.Debugf("host built, environment: %v, validate scopes: %v", environment.GetEnvironmentName(), validateScopes)

	// 配置最先创建，根 provider 释放时最后释放
	injection.GetRoutine[configuration.IConfiguration](ss.provider)
	return injection.GetRoutine[host.IHost](ss.provider)
}

func (ss *DefaultBuilder) useSetting(key, value string) {
	ss.config.AddSource(&sources.MemoryConfigurationSource{
		InitData: map[string]string{key: value},
	})
}
