package task_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/task"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	pool, err := task.NewPool(2)
	require.NoError(t, err)
	defer pool.Release()

	future := task.Submit(pool, func() (int, error) { return 42, nil })
	v, err := future.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	failed := task.Submit(pool, func() (int, error) { return 0, errors.New("boom") })
	_, err = failed.Wait()
	assert.EqualError(t, err, "boom")
}

func TestWaitTimeout(t *testing.T) {
	block := make(chan struct{})
	future := task.Go(func() (string, error) {
		<-block
		return "late", nil
	})

	_, _, ok := future.WaitTimeout(10 * time.Millisecond)
	assert.False(t, ok)

	close(block)
	v, err, ok := future.WaitTimeout(time.Second)
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestSubmitToReleasedPool(t *testing.T) {
	pool, err := task.NewPool(1)
	require.NoError(t, err)
	pool.Release()

	_, err = task.Submit(pool, func() (int, error) { return 1, nil }).Wait()
	assert.ErrorIs(t, err, ants.ErrPoolClosed)
}

func TestExecute(t *testing.T) {
	done := make(chan struct{})
	task.Execute(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task not executed")
	}
}
