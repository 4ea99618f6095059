package demos_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/demos"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransientDisposablesWithoutDispose(t *testing.T) {
	report, err := demos.TransientDisposablesWithoutDispose(1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, report.Created)
	assert.Equal(t, 0, report.Disposed)
}

func TestDeadLockWithFactories(t *testing.T) {
	report, err := demos.DeadLockWithFactories(100 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, report.Deadlocked)
	assert.True(t, errors.Is(report.Err, ants.ErrPoolClosed))
}

func TestSynchronousFactories(t *testing.T) {
	a, err := demos.SynchronousFactories()
	require.NoError(t, err)
	assert.NotNil(t, a.GetB())
}

func TestCaptiveDependency(t *testing.T) {
	_, err := demos.CaptiveDependency(true)
	var scopeErr *injection.InvalidScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Contains(t, demos.Describe(err), "invalid scope")

	a, err := demos.CaptiveDependency(false)
	require.NoError(t, err)
	assert.NotNil(t, a.GetB())
}

func TestScopedServiceBecomesSingleton(t *testing.T) {
	_, _, err := demos.ScopedServiceBecomesSingleton(true)
	var scopeErr *injection.InvalidScopeError
	require.ErrorAs(t, err, &scopeErr)

	first, second, err := demos.ScopedServiceBecomesSingleton(false)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestEnvironmentSubstitution(t *testing.T) {
	cases := map[string]string{
		"Test":        "Test",
		"Production":  "Production",
		"Development": "Production",
	}
	for environment, expected := range cases {
		data, err := demos.EnvironmentSubstitution(environment)
		require.NoError(t, err)
		assert.Equal(t, expected, data, environment)
	}
}

func TestHelloWorldPipeline(t *testing.T) {
	body, err := demos.HelloWorldPipeline()
	require.NoError(t, err)
	assert.Equal(t, "Hello World", body)
}

func TestEnvironmentPipeline(t *testing.T) {
	body, err := demos.EnvironmentPipeline(demos.TestEnvironment)
	require.NoError(t, err)
	assert.Equal(t, "Test", body)

	body, err = demos.EnvironmentPipeline("Production")
	require.NoError(t, err)
	assert.Equal(t, "Production", body)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "ok", demos.Describe(nil))
	assert.Equal(t, "boom", demos.Describe(errors.New("boom")))
}
