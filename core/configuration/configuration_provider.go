package configuration

import (
	"sync"

	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/notifier"
)

var _ IConfigurationProvider = (*Provider)(nil)

// Provider 配置提供者基础实现，key 忽略大小写
type Provider struct {
	lock     sync.Mutex
	data     *container.CaseInsensitiveStringMap[string]
	notifier *Notifier
}

func NewProvider() *Provider {
	return &Provider{
		data:     container.NewCaseInsensitiveStringMap[string](),
		notifier: NewNotifier(),
	}
}

func (ss *Provider) Get(key string) string {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.data.Get(key)
}

func (ss *Provider) TryGet(key string) (value string, ok bool) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.data.TryGet(key)
}

func (ss *Provider) Set(key string, value string) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.data.Add(key, value)
}

func (ss *Provider) GetReloadNotifier() notifier.INotifier {
	return ss.notifier
}

func (ss *Provider) Replace(data *container.CaseInsensitiveStringMap[string]) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.data = data
}

func (ss *Provider) Load() {
}

func (ss *Provider) OnReload() {
	ss.notifier.Notify()
}

func (ss *Provider) GetChildKeys(parentPath string) container.List[string] {
	ss.lock.Lock()
	keys := ss.data.Keys()
	ss.lock.Unlock()

	childKeys := container.NewOrderedSet[string]()
	for _, key := range keys {
		switch {
		case len(parentPath) == 0:
			childKeys.Add(keySegment(key, 0))
		case hasPathPrefix(key, parentPath):
			childKeys.Add(keySegment(key, len(parentPath)+1))
		}
	}
	return childKeys.ToList()
}
