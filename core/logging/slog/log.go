package slog

import (
	"sync"

	"github.com/mogud/snowdi/core/logging"
)

var lock sync.RWMutex
var globalHandler logging.ILogHandler
var globalLogger logging.ILogger

// BindGlobalHandler 绑定全局 handler，之后创建的全局 logger 输出到该 handler
func BindGlobalHandler(h logging.ILogHandler) {
	lock.Lock()
	defer lock.Unlock()

	globalHandler = h
	globalLogger = nil
}

func BindGlobalLogger(l logging.ILogger) {
	lock.Lock()
	defer lock.Unlock()

	globalLogger = l
}

func getLogger() logging.ILogger {
	lock.RLock()
	logger := globalLogger
	lock.RUnlock()
	if logger != nil {
		return logger
	}

	lock.Lock()
	defer lock.Unlock()

	if globalHandler == nil {
		globalHandler = logging.NewSimpleLogHandler()
	}
	if globalLogger == nil {
		globalLogger = logging.NewDefaultLogger("Global", globalHandler, nil)
	}
	return globalLogger
}

func Tracef(format string, args ...any) {
	getLogger().Tracef(format, args...)
}

func Debugf(format string, args ...any) {
	getLogger().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	getLogger().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	getLogger().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	getLogger().Errorf(format, args...)
}

func Fatalf(format string, args ...any) {
	getLogger().Fatalf(format, args...)
}
