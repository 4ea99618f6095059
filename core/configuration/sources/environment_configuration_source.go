package sources

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/logging/slog"
)

var _ configuration.IConfigurationSource = (*EnvironmentConfigurationSource)(nil)

// EnvironmentConfigurationSource 从进程环境变量及 .env 文件读取配置
//
// 只接受带 Prefix 的变量，去掉前缀后 "__" 视为路径分隔符，如 SNOW_Http__Port => Http:Port。
// 进程环境变量优先于 .env 文件。
type EnvironmentConfigurationSource struct {
	Prefix      string
	DotEnvFiles []string
}

func (ss *EnvironmentConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewEnvironmentConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*EnvironmentConfigurationProvider)(nil)

type EnvironmentConfigurationProvider struct {
	*configuration.Provider

	prefix      string
	dotEnvFiles []string
}

func NewEnvironmentConfigurationProvider(source *EnvironmentConfigurationSource) *EnvironmentConfigurationProvider {
	return &EnvironmentConfigurationProvider{
		Provider:    configuration.NewProvider(),
		prefix:      source.Prefix,
		dotEnvFiles: source.DotEnvFiles,
	}
}

func (ss *EnvironmentConfigurationProvider) Load() {
	data := container.NewCaseInsensitiveStringMap[string]()

	for _, file := range ss.dotEnvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		kvs, err := godotenv.Read(file)
		if err != nil {
			slog.Warnf("read env file(%v) failed: %v", file, err)
			continue
		}
		for k, v := range kvs {
			ss.add(data, k, v)
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		ss.add(data, k, v)
	}

	ss.Replace(data)
}

func (ss *EnvironmentConfigurationProvider) add(data *container.CaseInsensitiveStringMap[string], key, value string) {
	if len(ss.prefix) > 0 {
		if len(key) <= len(ss.prefix) || !strings.EqualFold(key[:len(ss.prefix)], ss.prefix) {
			return
		}
		key = key[len(ss.prefix):]
	}
	data.Add(strings.ReplaceAll(key, "__", configuration.KeyDelimiter), value)
}
