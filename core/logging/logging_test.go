package logging_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/logging"
	"github.com/stretchr/testify/assert"
)

type recordHandler struct {
	records []*logging.LogData
}

func (ss *recordHandler) Log(data *logging.LogData) {
	ss.records = append(ss.records, data)
}

type someRoutine struct{}

func TestLoggerInjector(t *testing.T) {
	h := &recordHandler{}
	ty := reflect.TypeOf((*logging.Logger[someRoutine])(nil))

	injector := logging.NewLoggerInjector(ty, h).(*logging.Logger[someRoutine])
	logger := injector.Get(func(data *logging.LogData) {
		data.Name = "Some"
	})
	logger.Warnf("hello %d", 7)

	if assert.Len(t, h.records, 1) {
		record := h.records[0]
		assert.Equal(t, logging.WARN, record.Level)
		assert.Equal(t, "Some", record.Name)
		assert.Equal(t, "hello 7", record.Message())
		assert.True(t, strings.HasSuffix(record.Path, "/someRoutine"))
	}
}

func TestDefaultLogFormatter(t *testing.T) {
	data := &logging.LogData{
		Time:    time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC),
		App:     "demo",
		Name:    "AVeryLongRoutineNameIndeed",
		Level:   logging.ERROR,
		Message: func() string { return "boom" },
	}

	line := logging.DefaultLogFormatter(data)
	assert.True(t, strings.HasPrefix(line, "2024/03/04 05:06:07.00 ERROR [demo]"))
	assert.Contains(t, line, "AVeryLongRouti..")
	assert.True(t, strings.HasSuffix(line, " boom"))
	assert.NotContains(t, line, "\x1b[")

	colored := logging.ColorLogFormatter(data)
	assert.True(t, strings.HasSuffix(colored, "\x1b[0m"))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "INFO", logging.INFO.String())
	assert.Equal(t, logging.DEBUG, logging.ParseLevel("debug"))
	assert.Equal(t, logging.NONE, logging.ParseLevel("verbose"))

	var level logging.Level
	assert.NoError(t, level.UnmarshalText([]byte("Warn")))
	assert.Equal(t, logging.WARN, level)
	assert.NoError(t, level.UnmarshalText([]byte("2")))
	assert.Equal(t, logging.DEBUG, level)
	assert.Error(t, level.UnmarshalText([]byte("loud")))
}

func TestLoggerWith(t *testing.T) {
	h := &recordHandler{}
	parent := logging.NewDefaultLogger("p", h, func(data *logging.LogData) {
		data.Name = "Parent"
		data.ID = "1"
	})
	child := parent.With(func(data *logging.LogData) {
		data.ID = "2"
	})

	child.Infof("child")
	parent.Logf(logging.ERROR, "parent %v", 1)

	if assert.Len(t, h.records, 2) {
		assert.Equal(t, "Parent", h.records[0].Name)
		assert.Equal(t, "2", h.records[0].ID)
		assert.Equal(t, logging.INFO, h.records[0].Level)
		assert.Equal(t, "1", h.records[1].ID)
		assert.Equal(t, "parent 1", h.records[1].Message())
	}
	assert.Same(t, parent, parent.With(nil))
}
