package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Skeleton: SkeletonConfig{JSON: "a.json", Atlas: "a.atlas"},
			Engine:   EngineConfig{TickRate: 60},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:    "missing json",
			mutate:  func(c *Config) { c.Skeleton.JSON = "" },
			wantErr: true,
			errMsg:  "skeleton json path is required",
		},
		{
			name:    "missing atlas",
			mutate:  func(c *Config) { c.Skeleton.Atlas = "" },
			wantErr: true,
			errMsg:  "skeleton atlas path is required",
		},
		{
			name:    "same file",
			mutate:  func(c *Config) { c.Skeleton.Atlas = c.Skeleton.JSON },
			wantErr: true,
			errMsg:  "must be different files",
		},
		{
			name:    "negative tick rate",
			mutate:  func(c *Config) { c.Engine.TickRate = -1 },
			wantErr: true,
			errMsg:  "invalid tick_rate",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Engine.Workers = -2 },
			wantErr: true,
			errMsg:  "invalid workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantAtlas string
		wantRoot  string
		wantRate  float64
	}{
		{
			name:      "empty",
			wantAtlas: "spineboy/spineboy.atlas",
			wantRoot:  "assets",
			wantRate:  60,
		},
		{
			name:      "atlas derived from json",
			config:    Config{Skeleton: SkeletonConfig{JSON: "hero/hero-pro.json"}},
			wantAtlas: "hero/hero-pro.atlas",
			wantRoot:  "assets",
			wantRate:  60,
		},
		{
			name: "explicit values kept",
			config: Config{
				Assets:   AssetsConfig{Root: "data"},
				Skeleton: SkeletonConfig{JSON: "a.json", Atlas: "pages/a.atlas"},
				Engine:   EngineConfig{TickRate: 30},
			},
			wantAtlas: "pages/a.atlas",
			wantRoot:  "data",
			wantRate:  30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			applyDefaults(&cfg)
			if cfg.Skeleton.Atlas != tt.wantAtlas {
				t.Errorf("Atlas = %q, want %q", cfg.Skeleton.Atlas, tt.wantAtlas)
			}
			if cfg.Assets.Root != tt.wantRoot {
				t.Errorf("Root = %q, want %q", cfg.Assets.Root, tt.wantRoot)
			}
			if cfg.Engine.TickRate != tt.wantRate {
				t.Errorf("TickRate = %v, want %v", cfg.Engine.TickRate, tt.wantRate)
			}
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `assets:
  pack: game.res
skeleton:
  json: raptor/raptor.json
  skin: default
engine:
  workers: 4
  profiling: true
equipment:
  manifest: buttons.yaml
`
	if err := os.WriteFile(filepath.Join(dir, ".oxy-spine.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OXY_SPINE_SKELETON_ANIMATION", "walk")
	t.Setenv("OXY_SPINE_ENGINE_TICK_RATE", "120")

	v := viper.New()
	if err := Init(v, "", dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Assets.Pack != "game.res" || cfg.Assets.Root != "assets" {
		t.Errorf("unexpected assets %+v", cfg.Assets)
	}
	if cfg.Skeleton.JSON != "raptor/raptor.json" || cfg.Skeleton.Atlas != "raptor/raptor.atlas" {
		t.Errorf("unexpected skeleton %+v", cfg.Skeleton)
	}
	if cfg.Skeleton.Animation != "walk" {
		t.Errorf("Animation = %q, want env override", cfg.Skeleton.Animation)
	}
	if cfg.Engine.TickRate != 120 || cfg.Engine.Workers != 4 || !cfg.Engine.Profiling {
		t.Errorf("unexpected engine %+v", cfg.Engine)
	}
	if cfg.Equipment.Manifest != "buttons.yaml" {
		t.Errorf("Manifest = %q", cfg.Equipment.Manifest)
	}
}

func TestInitWithoutConfigFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, "", t.TempDir()); err != nil {
		t.Fatalf("a missing default config file should not be an error, got %v", err)
	}
	if err := Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Fatalf("an explicit missing config file should be an error")
	}
}
