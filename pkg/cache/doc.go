// Package cache provides the session-scoped response cache used by the
// dex API client.
//
// The upstream dataset changes rarely, so every successful GET is memoized
// for as long as the response allows:
//
//   - Expires and Cache-Control max-age decide the entry TTL
//   - ETag and Last-Modified enable conditional revalidation (304)
//   - Entries never outlive their TTL; nothing is written to disk
//
// # Backends
//
// The default backend is an in-process map (NewMemoryBackend). When several
// processes share one session (for example a `dex serve` fleet behind a load
// balancer) the Redis backend can be used instead; entries are stored with
// the same TTL and expire on their own.
//
//	manager := cache.NewManager(cache.NewMemoryBackend())
//
//	key := cache.Key{Endpoint: "/pokemon", Query: url.Values{"limit": {"1025"}}}
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then:
//		entry, _ = cache.ResponseToEntry(resp)
//		_ = manager.Set(ctx, key, entry)
//	}
//
// # Metrics
//
//   - dex_cache_hits_total{backend}
//   - dex_cache_misses_total
//   - dex_cache_entries{backend}
//   - dex_304_responses_total
//   - dex_cache_errors_total{operation}
package cache
