package configuration

import (
	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/notifier"
)

// IConfigurationSource 配置源，每个源构建一个 provider
type IConfigurationSource interface {
	BuildConfigurationProvider(builder IConfigurationBuilder) IConfigurationProvider
}

// IConfigurationProvider 以扁平 key（以 KeyDelimiter 分隔）保存配置值
//
//	持有外部资源的 provider 可实现 io.Closer，由 Manager.Dispose 关闭
type IConfigurationProvider interface {
	Get(key string) string
	TryGet(key string) (value string, ok bool)
	Set(key string, value string)
	GetReloadNotifier() notifier.INotifier
	Load()
	GetChildKeys(parentPath string) container.List[string]
}

type IConfigurationBuilder interface {
	GetProperties() container.Map[string, any]
	GetSources() container.List[IConfigurationSource]
	AddSource(source IConfigurationSource)
	BuildConfigurationRoot() IConfigurationRoot
}

// IConfiguration key 大小写不敏感，多个 provider 中后添加的优先
type IConfiguration interface {
	Get(key string) string
	TryGet(key string) (value string, ok bool)
	Set(key string, value string)
	GetSection(key string) IConfigurationSection
	GetChildren() container.List[IConfigurationSection]
	GetChildrenByPath(path string) container.List[IConfigurationSection]
	GetReloadNotifier() notifier.INotifier
}

type IConfigurationRoot interface {
	IConfiguration

	// Reload 重新加载所有 provider 后统一通知一次
	Reload()
	GetProviders() container.List[IConfigurationProvider]
}

type IConfigurationSection interface {
	IConfiguration

	GetKey() string
	GetPath() string
	GetValue() (string, bool)
	SetValue(value string)
}

type IConfigurationManager interface {
	IConfigurationBuilder
	IConfigurationRoot

	Dispose() error
}
