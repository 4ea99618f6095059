package logging

type ILogger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	// Logf 以指定级别输出
	Logf(level Level, format string, args ...any)
	// With 返回子 logger，builder 在父 logger 的 builder 之后执行
	With(builder func(data *LogData)) ILogger
}
