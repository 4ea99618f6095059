package logging

import (
	"fmt"
	"strings"
	"sync"
)

type LogFormatterContainer struct {
	lock       sync.RWMutex
	formatters map[string]func(logData *LogData) string
}

func NewLogFormatterRepository() *LogFormatterContainer {
	return &LogFormatterContainer{
		formatters: make(map[string]func(logData *LogData) string),
	}
}

func (ss *LogFormatterContainer) AddFormatter(name string, formatter func(logData *LogData) string) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.formatters[name] = formatter
}

func (ss *LogFormatterContainer) GetFormatter(name string) func(logData *LogData) string {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return ss.formatters[name]
}

func DefaultLogFormatter(logData *LogData) string {
	return formatLogData(logData, false)
}

func ColorLogFormatter(logData *LogData) string {
	return formatLogData(logData, true)
}

func formatLogData(logData *LogData, colored bool) string {
	sb := strings.Builder{}
	now := logData.Time
	year, mon, day := now.Date()
	hour, m, sec := now.Clock()
	sb.WriteString(fmt.Sprintf(
		"%04d/%02d/%02d %02d:%02d:%02d.%02d",
		year, mon, day,
		hour, m, sec,
		now.Nanosecond()/1000/1000/10,
	))
	if colored {
		sb.WriteString(l2info[logData.Level].color)
	}
	sb.WriteString(" " + l2info[logData.Level].str)

	if len(logData.App) != 0 {
		sb.WriteString(" [" + logData.App + "]")
	}

	sb.WriteString(fmt.Sprintf(" %12s", shorten(logData.ID, 12, "-")))
	sb.WriteString(fmt.Sprintf(" %16s", shorten(logData.Name, 16, "System")))

	if len(logData.File) != 0 {
		sb.WriteString(fmt.Sprintf(" %s(%d)", logData.File, logData.Line))
	}
	sb.WriteString(" " + logData.Message())
	if colored {
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}

func shorten(s string, limit int, placeholder string) string {
	switch {
	case len(s) == 0:
		return placeholder
	case len(s) > limit:
		return s[:limit-2] + ".."
	default:
		return s
	}
}

type levelInfo struct {
	str   string
	color string
}

var l2info = [...]levelInfo{
	NONE:  {" NONE", ""},
	TRACE: {"TRACE", "\x1b[1;34m"},
	DEBUG: {"DEBUG", "\x1b[1;36m"},
	INFO:  {" INFO", "\x1b[1;37m"},
	WARN:  {" WARN", "\x1b[1;33m"},
	ERROR: {"ERROR", "\x1b[1;31m"},
	FATAL: {"FATAL", "\x1b[1;41m"},
}
