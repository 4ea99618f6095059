package debug_test

import (
	"testing"

	"github.com/mogud/snowdi/core/debug"
	"github.com/stretchr/testify/assert"
)

func TestStackInfo(t *testing.T) {
	info := debug.StackInfo()
	assert.Contains(t, info, "TestStackInfo")
	assert.Contains(t, info, "goroutine")
}
