package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the full oxy-spine configuration
type Config struct {
	Assets    AssetsConfig    `mapstructure:"assets"`
	Skeleton  SkeletonConfig  `mapstructure:"skeleton"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Equipment EquipmentConfig `mapstructure:"equipment"`
}

// AssetsConfig selects where assets are read from
type AssetsConfig struct {
	Root string `mapstructure:"root"`
	Pack string `mapstructure:"pack"` // bbolt pack file, takes precedence over Root
}

// SkeletonConfig names the skeleton shown by the demo and inspected by default
type SkeletonConfig struct {
	JSON      string `mapstructure:"json"`
	Atlas     string `mapstructure:"atlas"`
	Skin      string `mapstructure:"skin"`
	Animation string `mapstructure:"animation"`
}

// EngineConfig contains tick loop and worker settings
type EngineConfig struct {
	TickRate  float64 `mapstructure:"tick_rate"`
	Workers   int     `mapstructure:"workers"`
	Profiling bool    `mapstructure:"profiling"`
}

// EquipmentConfig points at the equipment manifest
type EquipmentConfig struct {
	Manifest string `mapstructure:"manifest"`
}

// Init configures v to read .oxy-spine.yaml from dir (or file, when
// set) and OXY_SPINE_* environment variables.
func Init(v *viper.Viper, file, dir string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigType("yaml")
		v.SetConfigName(".oxy-spine")
	}

	v.SetEnvPrefix("OXY_SPINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && file == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v and applies defaults
func LoadFrom(v *viper.Viper) (*Config, error) {
	// AutomaticEnv only covers keys viper already knows about
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

var keys = []string{
	"assets.root",
	"assets.pack",
	"skeleton.json",
	"skeleton.atlas",
	"skeleton.skin",
	"skeleton.animation",
	"engine.tick_rate",
	"engine.workers",
	"engine.profiling",
	"equipment.manifest",
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Assets.Root == "" {
		cfg.Assets.Root = "assets"
	}

	if cfg.Skeleton.JSON == "" {
		cfg.Skeleton.JSON = "spineboy/spineboy.json"
	}

	// the atlas usually sits next to the skeleton document
	if cfg.Skeleton.Atlas == "" {
		ext := path.Ext(cfg.Skeleton.JSON)
		cfg.Skeleton.Atlas = strings.TrimSuffix(cfg.Skeleton.JSON, ext) + ".atlas"
	}

	if cfg.Engine.TickRate == 0 {
		cfg.Engine.TickRate = 60
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Skeleton.JSON == "" {
		return fmt.Errorf("skeleton json path is required")
	}

	if c.Skeleton.Atlas == "" {
		return fmt.Errorf("skeleton atlas path is required")
	}

	if c.Skeleton.JSON == c.Skeleton.Atlas {
		return fmt.Errorf("skeleton json and atlas must be different files: %s", c.Skeleton.JSON)
	}

	if c.Engine.TickRate < 0 {
		return fmt.Errorf("invalid tick_rate: %v (must be positive)", c.Engine.TickRate)
	}

	if c.Engine.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be zero or positive)", c.Engine.Workers)
	}

	return nil
}
