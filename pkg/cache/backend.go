package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend stores raw cache payloads with a TTL.
// Get returns ErrCacheMiss when the key is absent or has expired.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryBackend keeps entries in process memory for the session lifetime.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	item, ok := b.items[key]
	b.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if b.now().After(item.expiresAt) {
		b.mu.Lock()
		delete(b.items, key)
		CacheEntries.WithLabelValues(b.Name()).Set(float64(len(b.items)))
		b.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return item.data, nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[key] = memoryItem{data: data, expiresAt: b.now().Add(ttl)}
	CacheEntries.WithLabelValues(b.Name()).Set(float64(len(b.items)))
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.items, key)
	CacheEntries.WithLabelValues(b.Name()).Set(float64(len(b.items)))
	return nil
}

// Len returns the number of stored items, expired or not.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// RedisBackend shares entries between processes through Redis.
// Every key is written with its TTL so entries expire server-side.
type RedisBackend struct {
	redis *redis.Client
}

// NewRedisBackend creates a Redis-backed cache backend.
func NewRedisBackend(redisClient *redis.Client) *RedisBackend {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisBackend{redis: redisClient}
}

// Name implements Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := b.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
