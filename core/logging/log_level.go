package logging

import (
	"fmt"
	"strconv"
	"strings"
)

type Level int

const (
	NONE Level = iota
	TRACE
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

func (ss Level) String() string {
	if ss <= NONE || int(ss) >= len(l2info) {
		return "NONE"
	}
	return strings.TrimSpace(l2info[ss].str)
}

// ParseLevel 解析级别名称（忽略大小写），无法识别时返回 NONE
func ParseLevel(name string) Level {
	for level := TRACE; level <= FATAL; level++ {
		if strings.EqualFold(level.String(), strings.TrimSpace(name)) {
			return level
		}
	}
	return NONE
}

// UnmarshalText 支持级别名称或数字，配置中可写 "Debug" 或 "2"
func (ss *Level) UnmarshalText(text []byte) error {
	str := strings.TrimSpace(string(text))
	if n, err := strconv.Atoi(str); err == nil {
		*ss = Level(n)
		return nil
	}

	level := ParseLevel(str)
	if level == NONE && !strings.EqualFold(str, "NONE") {
		return fmt.Errorf("invalid log level: %q", str)
	}
	*ss = level
	return nil
}
