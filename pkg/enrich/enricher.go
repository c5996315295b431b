package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	fetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dex_enrich_fetched_total",
		Help: "Total detail records fetched by the enricher",
	})

	omittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dex_enrich_omitted_total",
		Help: "Total identifiers omitted because their detail fetch failed",
	})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dex_enrich_inflight",
		Help: "Detail fetches currently in flight",
	})
)

// Config holds enricher configuration.
type Config struct {
	// Concurrency is the chunk size and therefore the in-flight bound.
	Concurrency int

	// Timeout per detail fetch. Zero disables the per-fetch deadline.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Concurrency: 10,
		Timeout:     15 * time.Second,
	}
}

// Fetcher fetches a single detail record. *client.Client implements it.
type Fetcher interface {
	FetchDetail(ctx context.Context, nameOrID string) (*client.Pokemon, error)
}

// Outcome is the result for one identifier: either a record or the reason
// it was omitted.
type Outcome struct {
	Name    string
	Pokemon *client.Pokemon
	Err     error
}

// Omitted reports whether the identifier produced no record.
func (o Outcome) Omitted() bool {
	return o.Pokemon == nil
}

// Enricher runs chunked detail fetches.
type Enricher struct {
	fetcher Fetcher
	config  Config
	logger  zerolog.Logger
}

// New creates an enricher.
func New(fetcher Fetcher, config Config) *Enricher {
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConfig().Concurrency
	}

	return &Enricher{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("enrich"),
	}
}

// Enrich fetches every identifier and returns one outcome per identifier.
// It never fails: fetch errors, and identifiers skipped because ctx ended,
// are reported as omitted outcomes.
func (e *Enricher) Enrich(ctx context.Context, ids []string) []Outcome {
	if len(ids) == 0 {
		return nil
	}

	start := time.Now()
	outcomes := make([]Outcome, 0, len(ids))

	for chunk, offset := 0, 0; offset < len(ids); chunk, offset = chunk+1, offset+e.config.Concurrency {
		end := min(offset+e.config.Concurrency, len(ids))

		if err := ctx.Err(); err != nil {
			for _, id := range ids[offset:] {
				outcomes = append(outcomes, Outcome{Name: id, Err: err})
			}
			omittedTotal.Add(float64(len(ids) - offset))
			e.logger.Warn().
				Err(err).
				Int("chunk", chunk).
				Int("omitted", len(ids)-offset).
				Msg("Enrichment stopped (context done)")
			break
		}

		outcomes = append(outcomes, e.fetchChunk(ctx, ids[offset:end])...)

		e.logger.Debug().
			Int("chunk", chunk).
			Int("done", end).
			Int("total", len(ids)).
			Msg("Chunk settled")
	}

	report := Summarize(outcomes)
	e.logger.Info().
		Int("requested", report.Requested).
		Int("fetched", report.Fetched).
		Int("omitted", report.Omitted).
		Dur("duration", time.Since(start)).
		Msg("Enrichment complete")

	return outcomes
}

// fetchChunk fans out one chunk and waits until every fetch settled.
// Outcomes are appended in completion order. The group only settles and
// bounds the chunk; its goroutines never return an error.
func (e *Enricher) fetchChunk(ctx context.Context, ids []string) []Outcome {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		settled = make([]Outcome, 0, len(ids))
	)
	g.SetLimit(e.config.Concurrency)

	for _, id := range ids {
		g.Go(func() error {
			outcome := e.fetchOne(ctx, id)

			mu.Lock()
			settled = append(settled, outcome)
			mu.Unlock()

			// Failures are outcomes, not group errors.
			return nil
		})
	}
	_ = g.Wait()

	return settled
}

func (e *Enricher) fetchOne(ctx context.Context, id string) Outcome {
	inFlight.Inc()
	defer inFlight.Dec()

	fetchCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	p, err := e.fetcher.FetchDetail(fetchCtx, id)
	if err == nil && p == nil {
		err = &client.NotFoundError{Resource: "pokemon", ID: id}
	}
	if err != nil {
		omittedTotal.Inc()
		e.logger.Warn().Err(err).Str("name", id).Msg("Omitting identifier")
		return Outcome{Name: id, Err: err}
	}

	fetchedTotal.Inc()
	return Outcome{Name: id, Pokemon: p}
}
