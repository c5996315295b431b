// Package metrics exposes the Prometheus registry used by dex-explorer.
// Metrics are defined in their own packages (client, cache, ratelimit,
// enrich, catalog) via promauto; this package serves them over HTTP and
// documents what is available.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by all dex packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler that serves the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - dex_requests_total{endpoint, status} (Counter): requests by endpoint and HTTP status
//   - dex_request_duration_seconds{endpoint} (Histogram): request duration
//   - dex_errors_total{class} (Counter): errors by class (network, not_found, decode)
//
// Cache Metrics (pkg/cache):
//   - dex_cache_hits_total{backend} (Counter)
//   - dex_cache_misses_total (Counter)
//   - dex_cache_entries{backend} (Gauge)
//   - dex_304_responses_total (Counter)
//   - dex_cache_errors_total{operation} (Counter)
//
// Pacer Metrics (pkg/ratelimit):
//   - dex_pacer_wait_seconds (Histogram): time spent waiting for a token
//
// Enrichment Metrics (pkg/enrich):
//   - dex_enrich_fetched_total (Counter)
//   - dex_enrich_omitted_total (Counter)
//   - dex_enrich_inflight (Gauge): detail fetches currently in flight
//
// Catalog Metrics (pkg/catalog):
//   - dex_catalog_builds_total (Counter)
//   - dex_catalog_size (Gauge): entities in the assembled collection
//
// Example Prometheus Queries:
//
//   # Enrichment omission rate
//   rate(dex_enrich_omitted_total[5m]) /
//   (rate(dex_enrich_fetched_total[5m]) + rate(dex_enrich_omitted_total[5m]))
//
//   # Cache hit rate
//   sum(rate(dex_cache_hits_total[5m])) /
//   (sum(rate(dex_cache_hits_total[5m])) + sum(rate(dex_cache_misses_total[5m])))
