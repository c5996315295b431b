package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil backend")
		}
	}()
	NewManager(nil)
}

func TestManager_SetAndGet(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	ctx := context.Background()
	key := Key{Endpoint: "/pokemon/pikachu"}

	entry := &Entry{
		Data:       []byte(`{"id":25}`),
		ETag:       `"abc"`,
		Expires:    time.Now().Add(5 * time.Minute),
		StatusCode: 200,
		CachedAt:   time.Now(),
	}
	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %s, want %s", got.Data, entry.Data)
	}
	if got.ETag != entry.ETag {
		t.Errorf("ETag = %s, want %s", got.ETag, entry.ETag)
	}
	if got.IsExpired() {
		t.Error("fresh entry reported expired")
	}
}

func TestManager_Get_Miss(t *testing.T) {
	manager := NewManager(NewMemoryBackend())

	_, err := manager.Get(context.Background(), Key{Endpoint: "/nope"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestManager_Set_ExpiredWithoutValidatorsDropped(t *testing.T) {
	backend := NewMemoryBackend()
	manager := NewManager(backend)

	err := manager.Set(context.Background(), Key{Endpoint: "/old"}, &Entry{
		Data:    []byte("x"),
		Expires: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if backend.Len() != 0 {
		t.Errorf("expired entry was stored")
	}
}

func TestManager_Get_StaleEntryKeptForRevalidation(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	ctx := context.Background()
	key := Key{Endpoint: "/pokemon/1"}

	err := manager.Set(ctx, key, &Entry{
		Data:    []byte("x"),
		ETag:    `"v1"`,
		Expires: time.Now().Add(-time.Second),
	})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsExpired() {
		t.Error("stale entry should report expired")
	}
}

func TestManager_Get_StaleWindowZero(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	manager.SetStaleWindow(0)
	ctx := context.Background()
	key := Key{Endpoint: "/pokemon/1"}

	_ = manager.Set(ctx, key, &Entry{Data: []byte("x"), ETag: `"v1"`, Expires: time.Now().Add(-time.Second)})

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestManager_Refresh(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	ctx := context.Background()
	key := Key{Endpoint: "/pokemon/1"}
	stale := &Entry{Data: []byte("x"), ETag: `"v1"`, Expires: time.Now().Add(-time.Second)}

	newExpires := time.Now().Add(time.Hour)
	if err := manager.Refresh(ctx, key, stale, newExpires); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsExpired() {
		t.Error("refreshed entry should be fresh")
	}
	if !stale.IsExpired() {
		t.Error("Refresh must not mutate the caller's entry")
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	ctx := context.Background()
	key := Key{Endpoint: "/pokemon/1"}

	_ = manager.Set(ctx, key, &Entry{Data: []byte("x"), Expires: time.Now().Add(time.Minute)})
	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryBackend_Expiry(t *testing.T) {
	backend := NewMemoryBackend()
	now := time.Now()
	backend.now = func() time.Time { return now }
	ctx := context.Background()

	_ = backend.Set(ctx, "k", []byte("v"), time.Minute)

	if _, err := backend.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := backend.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
	if backend.Len() != 0 {
		t.Errorf("expired item not evicted")
	}
}
