// Package catalog assembles the browsable collection: the entity list,
// enriched with detail records and grouped by variant cluster. The collection
// is built once per Catalog and shared read-only afterwards.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/enrich"
	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/Sternrassler/dex-explorer/pkg/variant"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var (
	buildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dex_catalog_builds_total",
		Help: "Total catalog assemblies",
	})

	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dex_catalog_size",
		Help: "Entities in the assembled catalog",
	})
)

// Source is the part of the API client the catalog needs.
type Source interface {
	enrich.Fetcher
	FetchList(ctx context.Context, limit, offset int) (*client.ListPage, error)
}

// Config holds catalog configuration.
type Config struct {
	// ListLimit is the number of list entries requested.
	ListLimit int

	// IncludeSpecialForms appends SpecialForms to the listed names.
	IncludeSpecialForms bool

	// Enrich configures the detail fetch.
	Enrich enrich.Config

	// BuildTimeout bounds one assembly. Zero means no limit.
	BuildTimeout time.Duration
}

// DefaultBuildTimeout bounds a cold build at the default pacing.
const DefaultBuildTimeout = 10 * time.Minute

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ListLimit:           1025,
		IncludeSpecialForms: true,
		Enrich:              enrich.DefaultConfig(),
		BuildTimeout:        DefaultBuildTimeout,
	}
}

// Catalog memoizes the assembled collection.
type Catalog struct {
	source   Source
	enricher *enrich.Enricher
	config   Config
	session  string
	logger   zerolog.Logger

	loadGroup singleflight.Group

	mu       sync.RWMutex
	entities []*client.Pokemon
	index    *variant.Index
	byName   map[string]*client.Pokemon
	report   enrich.Report
}

// New creates a catalog over source.
func New(source Source, config Config) *Catalog {
	if config.ListLimit <= 0 {
		config.ListLimit = DefaultConfig().ListLimit
	}
	session := uuid.NewString()

	return &Catalog{
		source:   source,
		enricher: enrich.New(source, config.Enrich),
		config:   config,
		session:  session,
		logger:   logging.NewLogger("catalog").With().Str("session", session).Logger(),
	}
}

// Session returns the id that tags this catalog's log lines.
func (c *Catalog) Session() string {
	return c.session
}

// Load returns the grouped collection, building it on first use. Concurrent
// callers share one build. The build is detached from ctx and bounded by
// BuildTimeout, so a caller giving up only stops its own wait. Omitted
// details shrink the collection; a failed list fetch or an interrupted build
// is an error and leaves nothing memoized.
func (c *Catalog) Load(ctx context.Context) ([]*client.Pokemon, error) {
	if entities, ok := c.loaded(); ok {
		return entities, nil
	}

	ch := c.loadGroup.DoChan("catalog", func() (any, error) {
		// Another caller may have finished while we waited.
		if entities, ok := c.loaded(); ok {
			return entities, nil
		}

		buildCtx, cancel := c.buildContext(ctx)
		defer cancel()
		return c.build(buildCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug().Msg("Joined in-flight catalog build")
		}
		return res.Val.([]*client.Pokemon), nil
	}
}

func (c *Catalog) buildContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if c.config.BuildTimeout > 0 {
		return context.WithTimeout(ctx, c.config.BuildTimeout)
	}
	return context.WithCancel(ctx)
}

func (c *Catalog) loaded() ([]*client.Pokemon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entities, c.entities != nil
}

func (c *Catalog) build(ctx context.Context) ([]*client.Pokemon, error) {
	start := time.Now()

	page, err := c.source.FetchList(ctx, c.config.ListLimit, 0)
	if err != nil {
		c.logger.Error().Err(err).Msg("Entity list fetch failed")
		return nil, fmt.Errorf("fetch entity list: %w", err)
	}

	names := page.Names()
	if c.config.IncludeSpecialForms {
		names = appendUnique(names, SpecialForms)
	}

	outcomes := c.enricher.Enrich(ctx, names)
	if err := ctx.Err(); err != nil {
		report := enrich.Summarize(outcomes)
		c.logger.Error().
			Err(err).
			Int("fetched", report.Fetched).
			Int("requested", report.Requested).
			Msg("Catalog build interrupted")
		return nil, fmt.Errorf("catalog build interrupted: %w", err)
	}
	entities := variant.Group(enrich.Entities(outcomes))
	report := enrich.Summarize(outcomes)

	byName := make(map[string]*client.Pokemon, len(entities))
	for _, p := range entities {
		byName[p.Name] = p
	}

	c.mu.Lock()
	c.entities = entities
	c.index = variant.NewIndex(entities)
	c.byName = byName
	c.report = report
	c.mu.Unlock()

	buildsTotal.Inc()
	catalogSize.Set(float64(len(entities)))
	c.logger.Info().
		Int("entities", len(entities)).
		Int("omitted", report.Omitted).
		Dur("duration", time.Since(start)).
		Msg("Catalog assembled")

	return entities, nil
}

func appendUnique(names, extra []string) []string {
	seen := make(map[string]bool, len(names)+len(extra))
	out := make([]string, 0, len(names)+len(extra))
	for _, list := range [][]string{names, extra} {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Invalidate drops the memoized collection; the next Load rebuilds it. A
// build already in flight is not affected.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entities = nil
	c.index = nil
	c.byName = nil
	c.report = enrich.Report{}
}

// Index returns the variant index of the loaded collection, or nil before
// the first successful Load.
func (c *Catalog) Index() *variant.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Lookup returns a loaded entity by name.
func (c *Catalog) Lookup(name string) (*client.Pokemon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byName[name]
	return p, ok
}

// Report returns the enrichment summary of the last build.
func (c *Catalog) Report() enrich.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}
