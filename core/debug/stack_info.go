package debug

import (
	"runtime"
)

// StackInfo 当前协程的调用栈，缓冲区不足时倍增直至完整
func StackInfo() string {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}
