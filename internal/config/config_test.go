package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func load(t *testing.T, configFile string) Config {
	t.Helper()

	v, err := New(configFile)
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := load(t, "")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"API.BaseURL", cfg.API.BaseURL, client.DefaultBaseURL},
		{"API.Timeout", cfg.API.Timeout, 30 * time.Second},
		{"API.RateLimit", cfg.API.RateLimit, 20.0},
		{"API.Burst", cfg.API.Burst, 10},
		{"Fetch.Concurrency", cfg.Fetch.Concurrency, 10},
		{"Fetch.Timeout", cfg.Fetch.Timeout, 15 * time.Second},
		{"Fetch.ListLimit", cfg.Fetch.ListLimit, 1025},
		{"Fetch.IncludeSpecialForms", cfg.Fetch.IncludeSpecialForms, true},
		{"Fetch.BuildTimeout", cfg.Fetch.BuildTimeout, 10 * time.Minute},
		{"Cache.Backend", cfg.Cache.Backend, "memory"},
		{"Redis.Addr", cfg.Redis.Addr, "localhost:6379"},
		{"Prefs.Backend", cfg.Prefs.Backend, "sqlite"},
		{"Prefs.Path", cfg.Prefs.Path, DefaultPrefsPath()},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Pretty", cfg.Log.Pretty, false},
		{"Server.Addr", cfg.Server.Addr, ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{"base url", "DEX_API_BASE_URL", "http://localhost:9000/api/v2", func(c Config) any { return c.API.BaseURL }, "http://localhost:9000/api/v2"},
		{"timeout", "DEX_API_TIMEOUT", "5s", func(c Config) any { return c.API.Timeout }, 5 * time.Second},
		{"rate limit", "DEX_API_RATE_LIMIT", "2.5", func(c Config) any { return c.API.RateLimit }, 2.5},
		{"concurrency", "DEX_FETCH_CONCURRENCY", "4", func(c Config) any { return c.Fetch.Concurrency }, 4},
		{"special forms", "DEX_FETCH_INCLUDE_SPECIAL_FORMS", "false", func(c Config) any { return c.Fetch.IncludeSpecialForms }, false},
		{"cache backend", "DEX_CACHE_BACKEND", "redis", func(c Config) any { return c.Cache.Backend }, "redis"},
		{"log level", "DEX_LOG_LEVEL", "DEBUG", func(c Config) any { return c.Log.Level }, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.envKey, tt.envVal)

			got := tt.field(load(t, ""))
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"dex.yaml": "fetch:\n  concurrency: 3\nprefs:\n  backend: memory\n",
		"dex.toml": "[fetch]\nconcurrency = 3\n[prefs]\nbackend = \"memory\"\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg := load(t, path)
			if cfg.Fetch.Concurrency != 3 {
				t.Errorf("Fetch.Concurrency = %d, want 3", cfg.Fetch.Concurrency)
			}
			if cfg.Prefs.Backend != "memory" {
				t.Errorf("Prefs.Backend = %s, want memory", cfg.Prefs.Backend)
			}
			if cfg.Fetch.ListLimit != 1025 {
				t.Errorf("unset keys should keep defaults, ListLimit = %d", cfg.Fetch.ListLimit)
			}
		})
	}
}

func TestLoad_DiscoversFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "dex.yaml"), []byte("server:\n  addr: \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if cfg := load(t, ""); cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %s, want :9999", cfg.Server.Addr)
	}
}

func TestNew_MissingExplicitFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"DEX_CACHE_BACKEND":     "memcached",
		"DEX_PREFS_BACKEND":     "cookie",
		"DEX_FETCH_CONCURRENCY": "0",
		"DEX_API_BASE_URL":      "not a url",
		"DEX_LOG_LEVEL":         "chatty",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, val)

			v, err := New("")
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if _, err := Load(v); err == nil {
				t.Errorf("Load() with %s=%s should fail", key, val)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := load(t, "")

	cc := cfg.ClientConfig()
	if cc.BaseURL != cfg.API.BaseURL || cc.Pacer.RatePerSecond != 20 || cc.Pacer.Burst != 10 {
		t.Errorf("ClientConfig() = %+v", cc)
	}

	cat := cfg.CatalogConfig()
	if cat.ListLimit != 1025 || cat.Enrich.Concurrency != 10 || !cat.IncludeSpecialForms {
		t.Errorf("CatalogConfig() = %+v", cat)
	}

	if lc := cfg.LoggingConfig(); string(lc.Level) != "info" || lc.Output == nil {
		t.Errorf("LoggingConfig() = %+v", lc)
	}
}

func TestRender(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := load(t, "")

	out, err := cfg.Render(FormatYAML)
	if err != nil {
		t.Fatalf("Render(yaml) error = %v", err)
	}
	var fromYAML map[string]map[string]any
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("rendered YAML does not parse: %v", err)
	}
	if fromYAML["api"]["timeout"] != "30s" {
		t.Errorf("yaml api.timeout = %v, want 30s", fromYAML["api"]["timeout"])
	}

	out, err = cfg.Render(FormatTOML)
	if err != nil {
		t.Fatalf("Render(toml) error = %v", err)
	}
	var fromTOML map[string]map[string]any
	if err := toml.Unmarshal(out, &fromTOML); err != nil {
		t.Fatalf("rendered TOML does not parse: %v", err)
	}
	if fromTOML["fetch"]["timeout"] != "15s" {
		t.Errorf("toml fetch.timeout = %v, want 15s", fromTOML["fetch"]["timeout"])
	}

	if _, err := cfg.Render("ini"); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Render(ini) error = %v", err)
	}
}
