package option

import (
	"fmt"
	"reflect"
	"sync"

	jsoniter "github.com/json-iterator/go"
	jsonparser "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/logging/slog"
)

const optionTag = "snow"

type bindingKey struct {
	Key string
	Ty  reflect.Type
}

// Repository 选项仓库，选项可以绑定到配置路径或直接绑定到值
type Repository struct {
	lock   sync.RWMutex
	config configuration.IConfiguration
	paths  map[bindingKey]string
	values map[bindingKey]any
}

func NewOptionRepository(config configuration.IConfiguration) *Repository {
	return &Repository{
		config: config,
		paths:  make(map[bindingKey]string),
		values: make(map[bindingKey]any),
	}
}

func (ss *Repository) BindByPath(key string, ty reflect.Type, path string) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.paths[bindingKey{Key: key, Ty: ty}] = path
}

func (ss *Repository) BindByValue(key string, ty reflect.Type, value any) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.values[bindingKey{Key: key, Ty: ty}] = value
}

// Load 按配置路径反序列化到 out，out 必须为指针
func (ss *Repository) Load(path string, out any) error {
	if ss.config == nil {
		return nil
	}

	var source configuration.IConfiguration = ss.config
	if len(path) > 0 {
		source = ss.config.GetSection(path)
	}

	bytes, err := jsoniter.Marshal(configuration.ToTree(source))
	if err != nil {
		return fmt.Errorf("marshal option(%v) failed: %w", path, err)
	}

	k := koanf.New(configuration.KeyDelimiter)
	if err = k.Load(rawbytes.Provider(bytes), jsonparser.Parser()); err != nil {
		return fmt.Errorf("load option(%v) failed: %w", path, err)
	}
	if err = k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		Tag: optionTag,
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return fmt.Errorf("unmarshal option(%v) failed: %w", path, err)
	}
	return nil
}

func (ss *Repository) getOption(key string, ty reflect.Type) any {
	bk := bindingKey{Key: key, Ty: ty}

	ss.lock.RLock()
	value, hasValue := ss.values[bk]
	path, hasPath := ss.paths[bk]
	ss.lock.RUnlock()

	if hasValue {
		return value
	}

	var out reflect.Value
	if ty.Kind() == reflect.Pointer {
		out = reflect.New(ty.Elem())
	} else {
		out = reflect.New(ty)
	}

	if hasPath {
		if err := ss.Load(path, out.Interface()); err != nil {
			slog.Errorf("get option %v failed: %v", ty, err)
		}
	}

	if ty.Kind() == reflect.Pointer {
		return out.Interface()
	}
	return out.Elem().Interface()
}

func (ss *Repository) onChanged(callback func()) {
	if ss.config == nil {
		return
	}
	ss.config.GetReloadNotifier().RegisterNotifyCallback(callback)
}

func BindOptionPath[T any](repo *Repository, path string) {
	BindKeyedOptionPath[T](repo, "", path)
}

func BindKeyedOptionPath[T any](repo *Repository, key string, path string) {
	repo.BindByPath(key, reflect.TypeOf((*T)(nil)).Elem(), path)
}

func BindOptionValue[T any](repo *Repository, value T) {
	BindKeyedOptionValue[T](repo, "", value)
}

func BindKeyedOptionValue[T any](repo *Repository, key string, value T) {
	repo.BindByValue(key, reflect.TypeOf((*T)(nil)).Elem(), value)
}
