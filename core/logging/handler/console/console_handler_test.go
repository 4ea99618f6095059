package console_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/handler/console"
	"github.com/stretchr/testify/assert"
)

func logAt(h logging.ILogHandler, path string, level logging.Level, msg string) {
	h.Log(&logging.LogData{
		Time:    time.Now(),
		Path:    path,
		Level:   level,
		Message: func() string { return msg },
	})
}

func TestConsoleHandlerFilter(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	h := console.NewWriterHandler(stdout, stderr, &console.Option{
		DefaultLevel: logging.INFO,
		Filter: map[string]logging.Level{
			"app/noisy":       logging.ERROR,
			"app/noisy/debug": logging.DEBUG,
		},
	})

	logAt(h, "app/service", logging.DEBUG, "dropped")
	logAt(h, "app/service", logging.INFO, "kept")
	logAt(h, "app/noisy/x", logging.WARN, "filtered")
	logAt(h, "app/noisy/debug/x", logging.DEBUG, "longest prefix wins")
	logAt(h, "app/service", logging.ERROR, "to stderr")

	out := stdout.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "longest prefix wins")
	assert.Equal(t, 1, strings.Count(stderr.String(), "\n"))
	assert.Contains(t, stderr.String(), "to stderr")
}
