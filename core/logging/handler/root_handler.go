package handler

import (
	"reflect"

	"github.com/mogud/snowdi/core/logging"
)

var _ logging.ILogHandler = (*RootHandler)(nil)

// RootHandler 注入 Logger[T] 时使用的根 handler
type RootHandler struct {
	proxy logging.ILogHandler
}

func NewRootHandler(proxy logging.ILogHandler) *RootHandler {
	return &RootHandler{
		proxy: proxy,
	}
}

func (ss *RootHandler) Log(data *logging.LogData) {
	ss.proxy.Log(data)
}

func (ss *RootHandler) WrapToContainer(ty reflect.Type) any {
	return logging.NewLoggerInjector(ty, ss)
}
