package option_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/configuration/sources"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverOption struct {
	Host     string                   `snow:"Host"`
	Port     int                      `snow:"Port"`
	Enabled  bool                     `snow:"Enabled"`
	Timeout  time.Duration            `snow:"Timeout"`
	Hosts    []string                 `snow:"Hosts"`
	Level    logging.Level            `snow:"Level"`
	Filter   map[string]logging.Level `snow:"Filter"`
	Untagged string
}

func newRepository(data map[string]string) (*configuration.Manager, *option.Repository) {
	manager := configuration.NewManager()
	manager.AddSource(&sources.MemoryConfigurationSource{InitData: data})
	return manager, option.NewOptionRepository(manager)
}

func TestBindPath(t *testing.T) {
	_, repo := newRepository(map[string]string{
		"Server:Host":             "localhost",
		"Server:port":             "8080",
		"Server:Enabled":          "true",
		"Server:Timeout":          "3s",
		"Server:Hosts:0":          "a",
		"Server:Hosts:1":          "b",
		"Server:Level":            "Warn",
		"Server:Filter:snow.core": "Debug",
		"Server:Untagged":         "u",
	})
	option.BindOptionPath[*serverOption](repo, "Server")

	opt := option.New[*serverOption](repo).Get()
	require.NotNil(t, opt)
	assert.Equal(t, "localhost", opt.Host)
	assert.Equal(t, 8080, opt.Port)
	assert.True(t, opt.Enabled)
	assert.Equal(t, 3*time.Second, opt.Timeout)
	assert.Equal(t, []string{"a", "b"}, opt.Hosts)
	assert.Equal(t, logging.WARN, opt.Level)
	assert.Equal(t, logging.DEBUG, opt.Filter["snow.core"])
	assert.Equal(t, "u", opt.Untagged)
}

func TestBindValueAndKeyed(t *testing.T) {
	_, repo := newRepository(map[string]string{"Primary:Port": "1", "Secondary:Port": "2"})
	option.BindKeyedOptionPath[*serverOption](repo, "primary", "Primary")
	option.BindKeyedOptionPath[*serverOption](repo, "secondary", "Secondary")
	option.BindOptionValue[*serverOption](repo, &serverOption{Port: 3})

	opt := option.New[*serverOption](repo)
	assert.Equal(t, 1, opt.GetKeyed("primary").Port)
	assert.Equal(t, 2, opt.GetKeyed("secondary").Port)
	assert.Equal(t, 3, opt.Get().Port)
}

func TestUnboundOptionIsZero(t *testing.T) {
	_, repo := newRepository(nil)

	assert.Equal(t, &serverOption{}, option.New[*serverOption](repo).Get())
	assert.Equal(t, serverOption{}, option.New[serverOption](repo).Get())

	var unbound option.Option[*serverOption]
	assert.Nil(t, unbound.Get())
}

func TestOnChanged(t *testing.T) {
	manager, repo := newRepository(map[string]string{"Server:Port": "1"})
	option.BindOptionPath[*serverOption](repo, "Server")
	opt := option.New[*serverOption](repo)

	ports := make([]int, 0)
	opt.OnChanged(func() {
		ports = append(ports, opt.Get().Port)
	})

	manager.Set("Server:Port", "2")
	manager.Reload()
	assert.Equal(t, []int{2}, ports)
}

func TestNewOptionInjector(t *testing.T) {
	_, repo := newRepository(map[string]string{"Server:Port": "9"})
	option.BindOptionPath[*serverOption](repo, "Server")

	injected := option.NewOptionInjector(reflect.TypeOf((*option.Option[*serverOption])(nil)), repo)
	opt, ok := injected.(*option.Option[*serverOption])
	require.True(t, ok)
	assert.Equal(t, 9, opt.Get().Port)
}
