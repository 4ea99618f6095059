package console

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
)

var _ logging.ILogHandler = (*Handler)(nil)

type Option struct {
	Formatter     string                   `snow:"Formatter"`
	FileLineLevel int                      `snow:"FileLineLevel"`
	FileLineSkip  int                      `snow:"FileLineSkip"`
	ErrorLevel    logging.Level            `snow:"ErrorLevel"`
	Filter        map[string]logging.Level `snow:"Filter"`
	DefaultLevel  logging.Level            `snow:"DefaultLevel"`
}

type Handler struct {
	lock             sync.Mutex
	option           *Option
	sortedFilterKeys container.List[string]
	formatter        func(logData *logging.LogData) string

	stdout io.Writer
	stderr io.Writer
}

func NewHandler() *Handler {
	handler := &Handler{
		option: &Option{
			Formatter:     "Color",
			FileLineLevel: int(logging.FATAL) + 1,
			FileLineSkip:  6,
			ErrorLevel:    logging.ERROR,
			Filter:        make(map[string]logging.Level),
		},
		formatter: logging.ColorLogFormatter,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	handler.CheckOption()
	return handler
}

// NewWriterHandler 输出到指定 writer，测试中使用
func NewWriterHandler(stdout, stderr io.Writer, opt *Option) *Handler {
	handler := NewHandler()
	handler.stdout = stdout
	handler.stderr = stderr
	if opt != nil {
		handler.option = opt
	}
	handler.formatter = logging.DefaultLogFormatter
	handler.CheckOption()
	return handler
}

func (ss *Handler) Construct(opt *option.Option[*Option], repo *logging.LogFormatterContainer) {
	ss.lock.Lock()
	ss.option = opt.Get()
	ss.formatter = ss.selectFormatter(repo)
	ss.CheckOption()
	ss.lock.Unlock()

	opt.OnChanged(func() {
		newOption := opt.Get()

		ss.lock.Lock()
		defer ss.lock.Unlock()

		ss.option = newOption
		ss.formatter = ss.selectFormatter(repo)
		ss.CheckOption()
	})
}

func (ss *Handler) selectFormatter(repo *logging.LogFormatterContainer) func(logData *logging.LogData) string {
	var formatter func(logData *logging.LogData) string
	if repo != nil && len(ss.option.Formatter) > 0 {
		formatter = repo.GetFormatter(ss.option.Formatter)
	}
	if formatter == nil {
		formatter = logging.ColorLogFormatter
	}
	return formatter
}

// CheckOption 补全默认值并重建过滤前缀，调用方负责加锁
func (ss *Handler) CheckOption() {
	if ss.option.Filter == nil {
		ss.option.Filter = make(map[string]logging.Level)
	}

	// 长前缀优先匹配
	ss.sortedFilterKeys = container.Map[string, logging.Level](ss.option.Filter).Keys()
	container.SortBy(ss.sortedFilterKeys, func(lhs, rhs string) bool {
		if len(lhs) != len(rhs) {
			return len(lhs) > len(rhs)
		}
		return lhs < rhs
	})

	if ss.option.DefaultLevel == logging.NONE {
		ss.option.DefaultLevel = logging.INFO
	}
	if ss.option.ErrorLevel == logging.NONE {
		ss.option.ErrorLevel = logging.ERROR
	}
	if ss.option.FileLineLevel == 0 {
		ss.option.FileLineLevel = int(logging.FATAL) + 1
	}
}

func (ss *Handler) Log(logData *logging.LogData) {
	if logData.Level == logging.NONE {
		return
	}

	ss.lock.Lock()
	curOption := ss.option
	filterKeys := ss.sortedFilterKeys
	formatter := ss.formatter
	stdout, stderr := ss.stdout, ss.stderr
	ss.lock.Unlock()

	filterLevel := curOption.DefaultLevel
	for _, key := range filterKeys {
		if strings.HasPrefix(logData.Path, key) {
			filterLevel = curOption.Filter[key]
			break
		}
	}

	if logData.Level < filterLevel {
		return
	}

	if len(logData.File) == 0 && int(logData.Level) >= curOption.FileLineLevel {
		_, fn, ln, _ := runtime.Caller(curOption.FileLineSkip)
		d := *logData
		d.File = fn
		d.Line = ln
		logData = &d
	}

	message := formatter(logData)

	if logData.Level < curOption.ErrorLevel {
		_, _ = fmt.Fprintln(stdout, message)
	} else {
		_, _ = fmt.Fprintln(stderr, message)
	}
}
