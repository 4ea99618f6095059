package configuration_test

import (
	"testing"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/configuration/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(layers ...map[string]string) *configuration.Manager {
	manager := configuration.NewManager()
	for _, layer := range layers {
		manager.AddSource(&sources.MemoryConfigurationSource{InitData: layer})
	}
	return manager
}

func TestManagerLayering(t *testing.T) {
	manager := newManager(
		map[string]string{"Http:Port": "80", "Http:Host": "localhost"},
		map[string]string{"http:port": "8080"},
	)

	assert.Equal(t, "8080", manager.Get("Http:Port"))
	assert.Equal(t, "localhost", manager.Get("HTTP:HOST"))

	_, ok := manager.TryGet("Http:Missing")
	assert.False(t, ok)
}

func TestSection(t *testing.T) {
	manager := newManager(map[string]string{
		"Logging:Console:DefaultLevel": "Info",
		"Logging:Console:ErrorLevel":   "Error",
		"Logging:File:Path":            "app.log",
	})

	section := manager.GetSection("Logging:Console")
	assert.Equal(t, "Console", section.GetKey())
	assert.Equal(t, "Logging:Console", section.GetPath())
	assert.Equal(t, "Info", section.Get("DefaultLevel"))

	_, ok := section.GetValue()
	assert.False(t, ok)

	children := manager.GetSection("Logging").GetChildren()
	require.Equal(t, 2, children.Len())
	assert.Equal(t, "Console", children[0].GetKey())
	assert.Equal(t, "File", children[1].GetKey())

	section.SetValue("x")
	value, ok := manager.TryGet("Logging:Console")
	assert.True(t, ok)
	assert.Equal(t, "x", value)
}

func TestChildrenMergedCaseInsensitively(t *testing.T) {
	manager := newManager(
		map[string]string{"App:Name": "a"},
		map[string]string{"app:NAME": "b", "app:Version": "1"},
	)

	children := manager.GetSection("App").GetChildren()
	require.Equal(t, 2, children.Len())
	assert.Equal(t, "Name", children[0].GetKey())
	value, _ := children[0].GetValue()
	assert.Equal(t, "b", value)
}

func TestReloadNotifier(t *testing.T) {
	manager := newManager()

	count := 0
	manager.GetReloadNotifier().RegisterNotifyCallback(func() { count++ })

	manager.AddSource(&sources.MemoryConfigurationSource{InitData: map[string]string{"a": "1"}})
	manager.Reload()
	assert.Equal(t, 2, count)
}

func TestNotifierRecoversCallbackPanic(t *testing.T) {
	n := configuration.NewNotifier()

	calls := 0
	n.RegisterNotifyCallback(func() { panic("broken listener") })
	n.RegisterNotifyCallback(func() { calls++ })

	assert.NotPanics(t, n.Notify)
	assert.Equal(t, 1, calls)
}

func TestToTree(t *testing.T) {
	manager := newManager(map[string]string{
		"Server:Port":        "80",
		"Server:Hosts:0":     "a",
		"Server:Hosts:1":     "b",
		"Server:Tls:Enabled": "true",
	})

	tree := configuration.ToTree(manager.GetSection("Server"))
	assert.Equal(t, "80", tree["Port"])
	assert.Equal(t, []any{"a", "b"}, tree["Hosts"])
	assert.Equal(t, map[string]any{"Enabled": "true"}, tree["Tls"])
}

func TestExtensions(t *testing.T) {
	manager := newManager(map[string]string{"Flag": "true", "Count": "3", "Bad": "x"})

	assert.True(t, configuration.GetBool(manager, "Flag", false))
	assert.True(t, configuration.GetBool(manager, "Bad", true))
	assert.Equal(t, 3, configuration.GetInt(manager, "Count", 0))
	assert.Equal(t, 7, configuration.GetInt(manager, "Missing", 7))
	assert.Equal(t, "d", configuration.GetString(manager, "Missing", "d"))
}

func TestPathCombine(t *testing.T) {
	assert.Equal(t, "a:b", configuration.PathCombine("a", "", "b"))
	assert.Equal(t, "a", configuration.PathCombine("", "a"))
}
