package compound

import (
	"sync"

	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
)

var _ logging.ILogHandler = (*Handler)(nil)

type Option struct {
	App string `snow:"App"` // 日志中显示的应用名
}

type Handler struct {
	lock  sync.RWMutex
	proxy container.List[logging.ILogHandler]
	opt   *Option
}

func NewHandler() *Handler {
	return &Handler{opt: &Option{}}
}

func (ss *Handler) Construct(opt *option.Option[*Option]) {
	ss.opt = opt.Get()
}

func (ss *Handler) Log(data *logging.LogData) {
	if len(data.App) == 0 {
		data.App = ss.opt.App
	}

	ss.lock.RLock()
	handlers := ss.proxy
	ss.lock.RUnlock()

	for _, handler := range handlers {
		handler.Log(data)
	}
}

func (ss *Handler) AddHandler(handler logging.ILogHandler) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.proxy = append(ss.proxy.Copy(), handler)
}
