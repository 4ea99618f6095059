package configuration

import (
	"sync"

	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/debug"
	"github.com/mogud/snowdi/core/logging/slog"
	"github.com/mogud/snowdi/core/notifier"
)

var _ notifier.INotifier = (*Notifier)(nil)

// Notifier 注册与通知可并发进行，通知期间新注册的回调从下一次通知开始生效
type Notifier struct {
	lock      sync.Mutex
	callbacks container.List[func()]
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (ss *Notifier) RegisterNotifyCallback(callback func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.callbacks = append(ss.callbacks.Copy(), callback)
}

func (ss *Notifier) Notify() {
	ss.lock.Lock()
	callbacks := ss.callbacks
	ss.lock.Unlock()

	callbacks.Scan(invokeCallback)
}

// invokeCallback 单个回调 panic 不影响其余回调
func invokeCallback(callback func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Errorf("configuration reload callback panic: %v\n%v", r, debug.StackInfo())
		}
	}()
	callback()
}
