// Package config loads dex-explorer settings from defaults, an optional
// config file, DEX_* environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sternrassler/dex-explorer/pkg/catalog"
	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/enrich"
	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/Sternrassler/dex-explorer/pkg/ratelimit"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DEX_API_BASE_URL.
const EnvPrefix = "DEX"

// APIConfig configures the upstream API client.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gte=0"`
	Burst     int           `mapstructure:"burst" validate:"gte=0"`
}

// FetchConfig configures catalog assembly.
type FetchConfig struct {
	Concurrency         int           `mapstructure:"concurrency" validate:"gte=1,lte=100"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gte=0"`
	ListLimit           int           `mapstructure:"list_limit" validate:"gte=1"`
	IncludeSpecialForms bool          `mapstructure:"include_special_forms"`
	BuildTimeout        time.Duration `mapstructure:"build_timeout" validate:"gte=0"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory redis"`
}

// RedisConfig is shared by the Redis cache and preference backends.
type RedisConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	DB   int    `mapstructure:"db" validate:"gte=0"`
}

// PrefsConfig selects where the theme preference is stored.
type PrefsConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sqlite redis memory"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error disabled"`
	Pretty bool   `mapstructure:"pretty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// Config holds all runtime configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Prefs  PrefsConfig  `mapstructure:"prefs"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", client.DefaultBaseURL)
	v.SetDefault("api.user_agent", "dex-explorer/1.0 (+https://github.com/Sternrassler/dex-explorer)")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", float64(ratelimit.DefaultRatePerSecond))
	v.SetDefault("api.burst", ratelimit.DefaultBurst)
	v.SetDefault("fetch.concurrency", enrich.DefaultConfig().Concurrency)
	v.SetDefault("fetch.timeout", enrich.DefaultConfig().Timeout)
	v.SetDefault("fetch.list_limit", catalog.DefaultConfig().ListLimit)
	v.SetDefault("fetch.include_special_forms", true)
	v.SetDefault("fetch.build_timeout", catalog.DefaultBuildTimeout)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("prefs.backend", "sqlite")
	v.SetDefault("prefs.path", DefaultPrefsPath())
	v.SetDefault("log.level", string(logging.LevelInfo))
	v.SetDefault("log.pretty", false)
	v.SetDefault("server.addr", ":8080")
}

// DefaultPrefsPath returns the preference database location under the user
// config directory, or the working directory when that is unknown.
func DefaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dex-prefs.db"
	}
	return filepath.Join(dir, "dex", "prefs.db")
}

// New returns a viper instance with defaults and environment binding. When
// configFile is empty, dex.yaml or dex.toml is searched in the working
// directory and the user config directory; a missing file is not an error.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dex")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "dex"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ClientConfig returns the API client settings. The cache backend is chosen
// by the caller.
func (c Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.API.BaseURL,
		UserAgent: c.API.UserAgent,
		Timeout:   c.API.Timeout,
		Pacer: ratelimit.Config{
			RatePerSecond: c.API.RateLimit,
			Burst:         c.API.Burst,
		},
	}
}

// CatalogConfig returns the catalog assembly settings.
func (c Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		ListLimit:           c.Fetch.ListLimit,
		IncludeSpecialForms: c.Fetch.IncludeSpecialForms,
		BuildTimeout:        c.Fetch.BuildTimeout,
		Enrich: enrich.Config{
			Concurrency: c.Fetch.Concurrency,
			Timeout:     c.Fetch.Timeout,
		},
	}
}

// LoggingConfig returns the logger settings.
func (c Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}
