// Package config loads stacklayout settings from a config file, the
// environment and command-line flags, in increasing order of precedence.
//
// Environment variables use the STACKLAYOUT_ prefix with dots replaced by
// underscores, e.g. STACKLAYOUT_CACHE_BACKEND=redis.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "STACKLAYOUT"

// AppName names the config and cache directories.
const AppName = "stacklayout"

// Config is the complete application configuration.
type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport"`
	Render   RenderConfig   `mapstructure:"render"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// ViewportConfig is the default viewport for documents that name none.
// Zero means unset.
type ViewportConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

type RenderConfig struct {
	Formats    []string `mapstructure:"formats"`
	Scale      float64  `mapstructure:"scale"`
	Strict     bool     `mapstructure:"strict"`
	Measurer   string   `mapstructure:"measurer"`
	Background string   `mapstructure:"background"`
	Rasterizer string   `mapstructure:"rasterizer"`
}

type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Prefix namespaces keys, e.g. "staging:" when environments share Redis.
	Prefix string `mapstructure:"prefix"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	MaxBody int64  `mapstructure:"max_body"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key with its default so env overrides are
// visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("viewport.width", 0)
	v.SetDefault("viewport.height", 0)

	v.SetDefault("render.formats", []string{pipeline.FormatSVG})
	v.SetDefault("render.scale", pipeline.DefaultScale)
	v.SetDefault("render.strict", false)
	v.SetDefault("render.measurer", pipeline.DefaultMeasurer)
	v.SetDefault("render.background", "")
	v.SetDefault("render.rasterizer", pipeline.RasterizerBuiltin)

	v.SetDefault("cache.backend", string(cache.BackendFile))
	v.SetDefault("cache.dir", DefaultCacheDir())
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("cache.prefix", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body", 4<<20)

	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path into v and decodes the result. An
// empty path looks for config.yaml in [DefaultDir]; a missing default file
// is not an error, a missing explicit file is.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the current settings of v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport dimensions must not be negative")
	}
	if (c.Viewport.Width == 0) != (c.Viewport.Height == 0) {
		return fmt.Errorf("viewport.width and viewport.height must be set together")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return fmt.Errorf("render.formats: %w", err)
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render.scale must be positive")
	}
	if err := pipeline.ValidateRasterizer(c.Render.Rasterizer); err != nil {
		return fmt.Errorf("render.rasterizer: %w", err)
	}
	if err := pipeline.ValidateMeasurer(c.Render.Measurer); err != nil {
		return fmt.Errorf("render.measurer: %w", err)
	}
	switch cache.Backend(c.Cache.Backend) {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ViewportSize returns the configured viewport, or nil when unset.
func (c *Config) ViewportSize() *geom.Size {
	if c.Viewport.Width == 0 {
		return nil
	}
	return &geom.Size{W: c.Viewport.Width, H: c.Viewport.Height}
}

// CacheOptions returns the options for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  cache.Backend(c.Cache.Backend),
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
	}
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// PipelineOptions returns pipeline options seeded from the render and
// viewport settings. The caller sets the document.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Viewport:   c.ViewportSize(),
		Strict:     c.Render.Strict,
		Measurer:   c.Render.Measurer,
		Formats:    append([]string(nil), c.Render.Formats...),
		Scale:      c.Render.Scale,
		Background: c.Render.Background,
		Rasterizer: c.Render.Rasterizer,
	}
}

// LogLevel returns the parsed log level. Validate guarantees it parses.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DefaultDir returns $XDG_CONFIG_HOME/stacklayout or the platform
// equivalent.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, AppName)
}

// DefaultCacheDir returns the per-user cache directory for stacklayout.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}
