package sources

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/logging/slog"
	stripjsoncomments "github.com/trapcodeio/go-strip-json-comments"
)

var _ configuration.IConfigurationSource = (*JsonConfigurationSource)(nil)

type JsonConfigurationSource struct {
	Path           string
	Optional       bool
	ReloadOnChange bool
}

func (ss *JsonConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewJsonConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*JsonConfigurationProvider)(nil)

type JsonConfigurationProvider struct {
	*FileConfigurationProvider
}

func NewJsonConfigurationProvider(source *JsonConfigurationSource) *JsonConfigurationProvider {
	provider := &JsonConfigurationProvider{
		FileConfigurationProvider: NewFileConfigurationProvider(&FileConfigurationSource{
			Path:           source.Path,
			Optional:       source.Optional,
			ReloadOnChange: source.ReloadOnChange,
		}),
	}
	provider.OnLoad = provider.onLoadJson
	return provider
}

func (ss *JsonConfigurationProvider) onLoadJson(bytes []byte) {
	newMap, err := ConvertJsonToConfigurationKV("", stripjsoncomments.Strip(string(bytes)))
	if err != nil {
		slog.Errorf("load json configuration(%v) failed: %v", ss.path, err)
		ss.Replace(container.NewCaseInsensitiveStringMap[string]())
		return
	}

	ss.Replace(newMap)
}

// ConvertJsonToConfigurationKV 将 json 对象展开为以 ':' 分隔路径的键值表
func ConvertJsonToConfigurationKV(head string, json string) (*container.CaseInsensitiveStringMap[string], error) {
	var jsons map[string]any
	if err := jsoniter.UnmarshalFromString(json, &jsons); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	newMap := container.NewCaseInsensitiveStringMap[string]()
	for key, value := range jsons {
		if err := fillMap(newMap, configuration.PathCombine(head, key), value); err != nil {
			return nil, err
		}
	}
	return newMap, nil
}

func fillMap(m *container.CaseInsensitiveStringMap[string], key string, value any) error {
	switch v := value.(type) {
	case nil:
		m.Add(key, "")
	case string:
		m.Add(key, v)
	case map[string]any:
		for k, child := range v {
			if err := fillMap(m, configuration.PathCombine(key, k), child); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range v {
			if err := fillMap(m, configuration.PathCombine(key, strconv.Itoa(i)), child); err != nil {
				return err
			}
		}
	case float64:
		m.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		m.Add(key, strconv.FormatBool(v))
	default:
		return fmt.Errorf("invalid json value type: %T => %v", v, v)
	}
	return nil
}
