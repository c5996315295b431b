package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend ("memory", "redis").
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dex_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dex_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheEntries tracks entries held by in-process backends.
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dex_cache_entries",
			Help: "Current number of cached responses",
		},
		[]string{"backend"},
	)

	// NotModifiedResponses tracks 304 Not Modified responses.
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dex_304_responses_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dex_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
