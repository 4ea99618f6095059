package sources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/container"
	"github.com/mogud/snowdi/core/logging/slog"
)

const fileReloadDelay = 200 * time.Millisecond

var _ configuration.IConfigurationSource = (*FileConfigurationSource)(nil)

type FileConfigurationSource struct {
	Path           string
	Optional       bool
	ReloadOnChange bool
}

func (ss *FileConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewFileConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*FileConfigurationProvider)(nil)

// FileConfigurationProvider 文件配置提供者，文件内容的解析交给 OnLoad
type FileConfigurationProvider struct {
	*configuration.Provider

	path           string
	optional       bool
	reloadOnChange bool

	lock    sync.Mutex
	loaded  bool
	watcher *fsnotify.Watcher

	OnLoad func(bytes []byte)
}

func NewFileConfigurationProvider(source *FileConfigurationSource) *FileConfigurationProvider {
	return &FileConfigurationProvider{
		Provider:       configuration.NewProvider(),
		path:           filepath.Clean(source.Path),
		optional:       source.Optional,
		reloadOnChange: source.ReloadOnChange,
		OnLoad:         func(bytes []byte) {},
	}
}

func (ss *FileConfigurationProvider) Load() {
	ss.lock.Lock()
	loaded := ss.loaded
	ss.loaded = true
	ss.lock.Unlock()

	ss.loadFile()
	if loaded {
		ss.OnReload()
		return
	}

	if ss.reloadOnChange {
		if err := ss.watch(); err != nil {
			slog.Errorf("watch configuration file(%v) failed: %v", ss.path, err)
		}
	}
}

// Close 停止文件监听
func (ss *FileConfigurationProvider) Close() error {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.watcher == nil {
		return nil
	}
	err := ss.watcher.Close()
	ss.watcher = nil
	return err
}

func (ss *FileConfigurationProvider) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// 监听所在目录，文件被替换或重建后依然能收到事件
	if err = watcher.Add(filepath.Dir(ss.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	ss.lock.Lock()
	ss.watcher = watcher
	ss.lock.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != ss.path {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					slog.Debugf("configuration file changed: %v", event.Name)
					time.AfterFunc(fileReloadDelay, func() {
						ss.loadFile()
						ss.OnReload()
					})
				} else if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					slog.Debugf("configuration file removed: %v", event.Name)
					ss.Replace(container.NewCaseInsensitiveStringMap[string]())
					ss.OnReload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warnf("configuration file watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (ss *FileConfigurationProvider) loadFile() {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && ss.optional {
			ss.Replace(container.NewCaseInsensitiveStringMap[string]())
			return
		}
		if errors.Is(err, os.ErrNotExist) {
			panic(fmt.Errorf("configuration file not found: %v", ss.path))
		}
		slog.Errorf("read configuration file(%v) failed: %v", ss.path, err)
		return
	}

	ss.OnLoad(data)
}
