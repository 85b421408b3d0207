package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/flowmap/flowmap/pkg/pipeline"
)

// Cache backend names accepted in the configuration file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config holds flowmap configuration loaded from a TOML file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds default layout parameters.
type LayoutConfig struct {
	Direction        string  `toml:"direction"`
	RankSpacing      float64 `toml:"rank_spacing"`
	SiblingSpacing   float64 `toml:"sibling_spacing"`
	ContainerPadding float64 `toml:"container_padding"`
	GridSpacing      float64 `toml:"grid_spacing"`
	Jitter           bool    `toml:"jitter"`
	Seed             uint64  `toml:"seed"`
}

// RenderConfig holds default render parameters.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // "file", "redis", "none"
	Dir           string `toml:"dir"`     // file backend directory, defaults to XDG cache
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServeConfig holds HTTP service settings.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{Direction: "TB"},
		Render: RenderConfig{Formats: []string{pipeline.FormatJSON}},
		Cache:  CacheConfig{Backend: backendFile},
		Serve:  ServeConfig{Addr: ":8080"},
	}
}

// ConfigDir returns the flowmap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// LoadConfig reads the config file at path, falling back to the default
// location when path is empty and to defaults when no file exists.
func LoadConfig(path string) *Config {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(ConfigDir(), "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// Apply copies the configured defaults onto pipeline options. Values already
// set on opts (by flags) win over the configuration file.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.Direction == "" {
		opts.Direction = c.Layout.Direction
	}
	if opts.RankSpacing == 0 {
		opts.RankSpacing = c.Layout.RankSpacing
	}
	if opts.SiblingSpacing == 0 {
		opts.SiblingSpacing = c.Layout.SiblingSpacing
	}
	if opts.ContainerPadding == 0 {
		opts.ContainerPadding = c.Layout.ContainerPadding
	}
	if opts.GridSpacing == 0 {
		opts.GridSpacing = c.Layout.GridSpacing
	}
	if !opts.Jitter && c.Layout.Jitter {
		opts.Jitter = true
	}
	if opts.Seed == 0 {
		opts.Seed = c.Layout.Seed
	}
	if len(opts.Formats) == 0 && len(c.Render.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Render.Formats...)
	}
	if !opts.Detailed {
		opts.Detailed = c.Render.Detailed
	}
}
