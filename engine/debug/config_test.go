package debug

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/gizmo/engine/core"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %s", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max primitives", func(c *Config) { c.MaxPrimitives = 0 }},
		{"zero timed primitives", func(c *Config) { c.MaxPrimitivesWithLifetime = 0 }},
		{"tiny tessellation", func(c *Config) { c.Tessellation = 2 }},
		{"odd tessellation", func(c *Config) { c.Tessellation = 9; c.UVSplits = 3 }},
		{"indivisible splits", func(c *Config) { c.Tessellation = 16; c.UVSplits = 5 }},
		{"negative splits", func(c *Config) { c.UVSplits = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, core.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debugdraw.toml")
	content := []byte(`
max_primitives = 50
tessellation = 8
uv_splits = 2
default_color = [1.0, 0.0, 0.0, 1.0]
workers = 2
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxPrimitives != 50 {
		t.Errorf("max_primitives = %d, want 50", cfg.MaxPrimitives)
	}
	// Unset keys keep their defaults.
	if cfg.MaxPrimitivesWithLifetime != 100 {
		t.Errorf("max_primitives_with_lifetime = %d, want default 100", cfg.MaxPrimitivesWithLifetime)
	}
	if cfg.Tessellation != 8 || cfg.UVSplits != 2 {
		t.Errorf("tessellation/uv_splits = %d/%d, want 8/2", cfg.Tessellation, cfg.UVSplits)
	}
	if c := cfg.DefaultColorVec(); c.X != 1 || c.Y != 0 {
		t.Errorf("default color = %v", c)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debugdraw.toml")
	if err := os.WriteFile(path, []byte("tessellation = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
