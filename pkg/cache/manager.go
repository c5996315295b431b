package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// DefaultStaleWindow is how long an expired entry is kept for revalidation.
const DefaultStaleWindow = time.Hour

// Manager handles caching operations on top of a Backend.
type Manager struct {
	backend     Backend
	staleWindow time.Duration
}

// NewManager creates a new cache manager.
func NewManager(backend Backend) *Manager {
	if backend == nil {
		panic("cache backend cannot be nil")
	}
	return &Manager{backend: backend, staleWindow: DefaultStaleWindow}
}

// SetStaleWindow changes how long expired entries stay available for
// conditional revalidation. Zero drops them as soon as they expire.
func (m *Manager) SetStaleWindow(d time.Duration) {
	if d < 0 {
		d = 0
	}
	m.staleWindow = d
}

// Backend returns the underlying backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Get retrieves a cache entry by key.
// Expired entries that carry validators are still returned so the caller can
// revalidate them; check Entry.IsExpired. Returns ErrCacheMiss otherwise.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	data, err := m.backend.Get(ctx, key.String())
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		CacheMisses.Inc()
		if !entry.CanRevalidate() {
			_ = m.Delete(ctx, key)
			return nil, ErrCacheMiss
		}
		return &entry, nil
	}

	CacheHits.WithLabelValues(m.backend.Name()).Inc()
	return &entry, nil
}

// Set stores a cache entry with a TTL derived from its Expires field, plus
// the stale window when the entry can be revalidated.
// Entries that are already expired and cannot be revalidated are dropped.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if entry.CanRevalidate() {
		ttl += m.staleWindow
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.backend.Set(ctx, key.String(), data, ttl); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.backend.Delete(ctx, key.String()); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return err
	}
	return nil
}

// Refresh extends an entry after a 304 Not Modified revalidation.
func (m *Manager) Refresh(ctx context.Context, key Key, entry *Entry, newExpires time.Time) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	refreshed := *entry
	refreshed.Expires = newExpires
	refreshed.CachedAt = time.Now()
	return m.Set(ctx, key, &refreshed)
}
