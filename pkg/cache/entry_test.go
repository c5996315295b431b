package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"expired entry", time.Now().Add(-time.Hour), true},
		{"valid entry", time.Now().Add(time.Hour), false},
		{"just expired", time.Now().Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	expired := &Entry{Expires: time.Now().Add(-time.Minute)}
	if ttl := expired.TTL(); ttl != 0 {
		t.Errorf("TTL() of expired entry = %v, want 0", ttl)
	}

	fresh := &Entry{Expires: time.Now().Add(10 * time.Minute)}
	if ttl := fresh.TTL(); ttl <= 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL() = %v, want ~10m", ttl)
	}
}

func TestEntry_CanRevalidate(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{"nil entry", nil, false},
		{"no validators", &Entry{}, false},
		{"etag", &Entry{ETag: `"v1"`}, true},
		{"last modified", &Entry{LastModified: time.Now()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.CanRevalidate(); got != tt.want {
				t.Errorf("CanRevalidate() = %v, want %v", got, tt.want)
			}
		})
	}
}
