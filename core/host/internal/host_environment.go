package internal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/host"
)

var _ host.IHostEnvironment = (*HostEnvironment)(nil)

type HostEnvironment struct {
	environmentName string
	applicationName string
	contentRootPath string
}

// NewHostEnvironment 从配置中读取环境信息，未配置时环境为 Production，内容根目录为工作目录
func NewHostEnvironment(config configuration.IConfiguration) *HostEnvironment {
	env := &HostEnvironment{
		environmentName: configuration.GetString(config, host.EnvironmentKey, host.Production),
		applicationName: configuration.GetString(config, host.ApplicationNameKey, ""),
		contentRootPath: configuration.GetString(config, host.ContentRootKey, ""),
	}

	if len(env.applicationName) == 0 && len(os.Args) > 0 {
		env.applicationName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
	}
	if len(env.contentRootPath) == 0 {
		env.contentRootPath, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(env.contentRootPath); err == nil {
		env.contentRootPath = abs
	}
	return env
}

func (ss *HostEnvironment) GetEnvironmentName() string {
	return ss.environmentName
}

func (ss *HostEnvironment) GetApplicationName() string {
	return ss.applicationName
}

func (ss *HostEnvironment) GetContentRootPath() string {
	return ss.contentRootPath
}

func (ss *HostEnvironment) IsEnvironment(name string) bool {
	return strings.EqualFold(ss.environmentName, name)
}

func (ss *HostEnvironment) IsDevelopment() bool {
	return ss.IsEnvironment(host.Development)
}

func (ss *HostEnvironment) IsStaging() bool {
	return ss.IsEnvironment(host.Staging)
}

func (ss *HostEnvironment) IsProduction() bool {
	return ss.IsEnvironment(host.Production)
}
