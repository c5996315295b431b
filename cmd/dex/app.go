package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/dex-explorer/internal/config"
	"github.com/Sternrassler/dex-explorer/pkg/cache"
	"github.com/Sternrassler/dex-explorer/pkg/catalog"
	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/Sternrassler/dex-explorer/pkg/prefs"
	"github.com/Sternrassler/dex-explorer/pkg/state"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds the collaborators built from the configuration.
type app struct {
	config  config.Config
	logger  zerolog.Logger
	client  *client.Client
	catalog *catalog.Catalog
	prefs   prefs.Store
	redis   *redis.Client
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	logging.Setup(cfg.LoggingConfig())
	a := &app{config: cfg, logger: logging.NewLogger("dex")}

	if cfg.Cache.Backend == "redis" || cfg.Prefs.Backend == "redis" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		a.closers = append(a.closers, a.redis.Close)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.logger.Debug().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	clientCfg := cfg.ClientConfig()
	if cfg.Cache.Backend == "redis" {
		clientCfg.CacheBackend = cache.NewRedisBackend(a.redis)
	}
	c, err := client.New(clientCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create client: %w", err)
	}
	a.client = c
	a.catalog = catalog.New(c, cfg.CatalogConfig())

	return a, nil
}

// preferences opens the configured preference store on first use.
func (a *app) preferences(ctx context.Context) (prefs.Store, error) {
	if a.prefs != nil {
		return a.prefs, nil
	}

	switch a.config.Prefs.Backend {
	case "redis":
		a.prefs = prefs.NewRedis(a.redis)
	case "memory":
		a.prefs = prefs.NewMemory()
	default:
		s, err := prefs.OpenSQLite(ctx, a.config.Prefs.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		a.prefs = s
	}
	return a.prefs, nil
}

// store returns a state store backed by the preference store.
func (a *app) store(ctx context.Context) (*state.Store, error) {
	p, err := a.preferences(ctx)
	if err != nil {
		return nil, err
	}
	return state.NewStore(ctx, p), nil
}

// Close releases everything newApp and preferences opened.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
