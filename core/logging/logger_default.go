package logging

import (
	"fmt"
	"time"
)

var _ ILogger = (*DefaultLogger)(nil)

type DefaultLogger struct {
	path     string
	handler  ILogHandler
	builders []func(data *LogData)
}

func NewDefaultLogger(path string, handler ILogHandler, logDataBuilder func(data *LogData)) *DefaultLogger {
	logger := &DefaultLogger{
		path:    path,
		handler: handler,
	}
	if logDataBuilder != nil {
		logger.builders = []func(data *LogData){logDataBuilder}
	}
	return logger
}

func (ss *DefaultLogger) With(builder func(data *LogData)) ILogger {
	if builder == nil {
		return ss
	}

	builders := make([]func(data *LogData), 0, len(ss.builders)+1)
	builders = append(builders, ss.builders...)
	return &DefaultLogger{
		path:     ss.path,
		handler:  ss.handler,
		builders: append(builders, builder),
	}
}

func (ss *DefaultLogger) Logf(level Level, format string, args ...any) {
	if ss.handler == nil {
		return
	}

	data := &LogData{
		Time:  time.Now(),
		Path:  ss.path,
		Level: level,
		Message: func() string {
			return fmt.Sprintf(format, args...)
		},
	}
	for _, builder := range ss.builders {
		builder(data)
	}
	ss.handler.Log(data)
}

func (ss *DefaultLogger) Tracef(format string, args ...any) { ss.Logf(TRACE, format, args...) }
func (ss *DefaultLogger) Debugf(format string, args ...any) { ss.Logf(DEBUG, format, args...) }
func (ss *DefaultLogger) Infof(format string, args ...any)  { ss.Logf(INFO, format, args...) }
func (ss *DefaultLogger) Warnf(format string, args ...any)  { ss.Logf(WARN, format, args...) }
func (ss *DefaultLogger) Errorf(format string, args ...any) { ss.Logf(ERROR, format, args...) }
func (ss *DefaultLogger) Fatalf(format string, args ...any) { ss.Logf(FATAL, format, args...) }
