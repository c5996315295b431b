package cache

import (
	"time"
)

// Entry is a cached API response.
type Entry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match).
	ETag string `json:"etag,omitempty"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// LastModified from the Last-Modified header, if any.
	LastModified time.Time `json:"last_modified,omitempty"`

	// StatusCode of the cached response.
	StatusCode int `json:"status_code"`

	// ContentType of the cached response.
	ContentType string `json:"content_type,omitempty"`

	// CachedAt is when the entry was stored.
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired reports whether the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// CanRevalidate reports whether a conditional request can be built from e.
func (e *Entry) CanRevalidate() bool {
	return e != nil && (e.ETag != "" || !e.LastModified.IsZero())
}
