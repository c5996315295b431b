package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config rendering format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Settings returns the configuration as nested maps keyed like the config
// file, with durations rendered as strings.
func (c Config) Settings() map[string]any {
	return map[string]any{
		"api": map[string]any{
			"base_url":   c.API.BaseURL,
			"user_agent": c.API.UserAgent,
			"timeout":    c.API.Timeout.String(),
			"rate_limit": c.API.RateLimit,
			"burst":      c.API.Burst,
		},
		"fetch": map[string]any{
			"concurrency":           c.Fetch.Concurrency,
			"timeout":               c.Fetch.Timeout.String(),
			"list_limit":            c.Fetch.ListLimit,
			"include_special_forms": c.Fetch.IncludeSpecialForms,
			"build_timeout":         c.Fetch.BuildTimeout.String(),
		},
		"cache": map[string]any{
			"backend": c.Cache.Backend,
		},
		"redis": map[string]any{
			"addr": c.Redis.Addr,
			"db":   c.Redis.DB,
		},
		"prefs": map[string]any{
			"backend": c.Prefs.Backend,
			"path":    c.Prefs.Path,
		},
		"log": map[string]any{
			"level":  c.Log.Level,
			"pretty": c.Log.Pretty,
		},
		"server": map[string]any{
			"addr": c.Server.Addr,
		},
	}
}

// Render encodes the configuration in the given format.
func (c Config) Render(format Format) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		return yaml.Marshal(c.Settings())
	case FormatTOML:
		return toml.Marshal(c.Settings())
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
