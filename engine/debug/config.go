package debug

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/gizmo/engine/core"
	"github.com/spaghettifunk/gizmo/engine/math"
)

// Config tunes the debug draw system. Queue bounds may change at runtime via
// the config watcher; tessellation and split counts are fixed once the mesh
// cache is built.
type Config struct {
	// MaxPrimitives bounds the one-frame submission list.
	MaxPrimitives int `toml:"max_primitives"`
	// MaxPrimitivesWithLifetime bounds the timed submission list.
	MaxPrimitivesWithLifetime int `toml:"max_primitives_with_lifetime"`
	// Tessellation is the segment count for curved meshes.
	Tessellation int `toml:"tessellation"`
	// UVSplits is the number of marked boundary edges per curved mesh.
	UVSplits int `toml:"uv_splits"`
	// DefaultColor is used when a draw call passes a zero color.
	DefaultColor [4]float32 `toml:"default_color"`
	// Workers is the goroutine count for frame preparation. Zero or one
	// runs single threaded.
	Workers int `toml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxPrimitives:             100,
		MaxPrimitivesWithLifetime: 100,
		Tessellation:              16,
		UVSplits:                  4,
		DefaultColor:              [4]float32{1, 1, 1, 1},
		Workers:                   1,
	}
}

// LoadConfig reads and validates a TOML config file. Missing keys keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects parameter combinations the mesh generators cannot honor.
func (c *Config) Validate() error {
	if c.MaxPrimitives < 1 {
		return fmt.Errorf("%w: max_primitives must be at least 1, got %d", core.ErrInvalidArgument, c.MaxPrimitives)
	}
	if c.MaxPrimitivesWithLifetime < 1 {
		return fmt.Errorf("%w: max_primitives_with_lifetime must be at least 1, got %d", core.ErrInvalidArgument, c.MaxPrimitivesWithLifetime)
	}
	if c.Tessellation < 3 {
		return fmt.Errorf("%w: tessellation must be at least 3, got %d", core.ErrInvalidArgument, c.Tessellation)
	}
	if c.Tessellation%2 != 0 {
		return fmt.Errorf("%w: tessellation must be even for capsule generation, got %d", core.ErrInvalidArgument, c.Tessellation)
	}
	if c.UVSplits < 0 {
		return fmt.Errorf("%w: uv_splits cannot be negative, got %d", core.ErrInvalidArgument, c.UVSplits)
	}
	if c.UVSplits > 0 && c.Tessellation%c.UVSplits != 0 {
		return fmt.Errorf("%w: tessellation %d not evenly divisible by %d uv splits", core.ErrInvalidArgument, c.Tessellation, c.UVSplits)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative, got %d", core.ErrInvalidArgument, c.Workers)
	}
	return nil
}

// DefaultColorVec returns the configured fallback color as a vector.
func (c *Config) DefaultColorVec() math.Vec4 {
	return math.NewVec4(c.DefaultColor[0], c.DefaultColor[1], c.DefaultColor[2], c.DefaultColor[3])
}

// ConfigWatcher reloads the config file on change and hands validated
// configs to the system, which applies them at the next frame boundary.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	done    chan struct{}
}

// WatchConfig starts watching path and calls apply with every valid reload.
// Invalid edits are logged and skipped; the running config stays in effect.
func WatchConfig(path string, apply func(*Config)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}

	w := &ConfigWatcher{
		watcher: watcher,
		path:    path,
		done:    make(chan struct{}),
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					core.LogError("config reload skipped: %s", err)
					continue
				}
				core.LogInfo("config %s reloaded", path)
				apply(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				core.LogError("config watcher: %s", err)
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watcher goroutine.
func (w *ConfigWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
