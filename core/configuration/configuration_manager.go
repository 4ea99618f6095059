package configuration

import (
	"io"
	"strings"
	"sync"

	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/notifier"
	"go.uber.org/multierr"
)

var _ IConfigurationManager = (*Manager)(nil)

// Manager 同时作为配置构建器与配置根，后添加的源优先级更高
type Manager struct {
	lock       sync.Mutex
	properties container.Map[string, any]
	sources    container.List[IConfigurationSource]
	providers  container.List[IConfigurationProvider]
	notifier   *Notifier
}

func NewManager() *Manager {
	return &Manager{
		properties: container.NewMap[string, any](),
		sources:    container.NewList[IConfigurationSource](),
		providers:  container.NewList[IConfigurationProvider](),
		notifier:   NewNotifier(),
	}
}

func (ss *Manager) Get(key string) string {
	value, _ := ss.TryGet(key)
	return value
}

func (ss *Manager) TryGet(key string) (value string, ok bool) {
	providers := ss.GetProviders()
	for i := providers.Len() - 1; i >= 0; i-- {
		if value, ok = providers[i].TryGet(key); ok {
			return value, true
		}
	}
	return "", false
}

func (ss *Manager) Set(key string, value string) {
	ss.GetProviders().Scan(func(provider IConfigurationProvider) {
		provider.Set(key, value)
	})
}

func (ss *Manager) GetSection(key string) IConfigurationSection {
	return NewSection(ss, key)
}

func (ss *Manager) GetChildren() container.List[IConfigurationSection] {
	return ss.GetChildrenByPath("")
}

func (ss *Manager) GetChildrenByPath(path string) container.List[IConfigurationSection] {
	upperToKey := container.NewMap[string, string]()
	ss.GetProviders().Scan(func(provider IConfigurationProvider) {
		provider.GetChildKeys(path).Scan(func(key string) {
			upperKey := strings.ToUpper(key)
			if !upperToKey.Contains(upperKey) {
				upperToKey.Add(upperKey, key)
			}
		})
	})

	upperKeys := upperToKey.Keys()
	container.Sort(upperKeys)

	sections := container.NewList[IConfigurationSection]()
	for _, upperKey := range upperKeys {
		sections.Add(ss.GetSection(PathCombine(path, upperToKey[upperKey])))
	}
	return sections
}

func (ss *Manager) GetReloadNotifier() notifier.INotifier {
	return ss.notifier
}

func (ss *Manager) Reload() {
	ss.GetProviders().Scan(func(provider IConfigurationProvider) {
		provider.Load()
	})
	ss.notifier.Notify()
}

func (ss *Manager) GetProviders() container.List[IConfigurationProvider] {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.providers
}

func (ss *Manager) GetProperties() container.Map[string, any] {
	return ss.properties
}

func (ss *Manager) GetSources() container.List[IConfigurationSource] {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.sources
}

func (ss *Manager) AddSource(source IConfigurationSource) {
	newProvider := source.BuildConfigurationProvider(ss)
	newProvider.Load()

	ss.lock.Lock()
	ss.sources = append(ss.sources.Copy(), source)
	ss.providers = append(ss.providers.Copy(), newProvider)
	ss.lock.Unlock()

	newProvider.GetReloadNotifier().RegisterNotifyCallback(ss.notifier.Notify)
	ss.notifier.Notify()
}

func (ss *Manager) BuildConfigurationRoot() IConfigurationRoot {
	return ss
}

// Dispose 关闭持有外部资源的 provider，如文件监听
func (ss *Manager) Dispose() error {
	var errs error
	ss.GetProviders().Scan(func(provider IConfigurationProvider) {
		if closer, ok := provider.(io.Closer); ok {
			errs = multierr.Append(errs, closer.Close())
		}
	})
	return errs
}
