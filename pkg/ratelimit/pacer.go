// Package ratelimit paces outgoing API requests so a full catalog load stays
// inside the data source's fair-use budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Defaults for the public API. A full load issues ~1150 detail requests.
const (
	DefaultRatePerSecond = 20
	DefaultBurst         = 10

	// slowWaitThreshold is the wait above which a pacing delay is logged.
	slowWaitThreshold = 500 * time.Millisecond
)

var pacerWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "dex_pacer_wait_seconds",
	Help:    "Time requests spent waiting for a pacer token",
	Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
})

// Config holds pacer configuration.
type Config struct {
	// RatePerSecond is the sustained request rate. Zero or negative disables pacing.
	RatePerSecond float64

	// Burst is the number of requests allowed back-to-back.
	Burst int
}

// DefaultConfig returns the default pacing configuration.
func DefaultConfig() Config {
	return Config{
		RatePerSecond: DefaultRatePerSecond,
		Burst:         DefaultBurst,
	}
}

// Pacer gates requests with a token bucket.
type Pacer struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewPacer creates a pacer. A non-positive rate yields an unlimited pacer.
func NewPacer(cfg Config, logger zerolog.Logger) *Pacer {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Pacer{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Wait blocks until a request may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacer wait: %w", err)
	}

	waited := time.Since(start)
	pacerWaitSeconds.Observe(waited.Seconds())
	if waited > slowWaitThreshold {
		p.logger.Debug().
			Dur("waited", waited).
			Float64("limit", float64(p.limiter.Limit())).
			Msg("Request paced")
	}
	return nil
}

// Limit returns the configured sustained rate.
func (p *Pacer) Limit() rate.Limit {
	return p.limiter.Limit()
}
