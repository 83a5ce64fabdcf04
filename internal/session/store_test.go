package session

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t, 7*24*time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "ALT001"); err != nil {
		t.Fatalf("save: %v", err)
	}

	code, err := store.Load(ctx, "tok-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if code != "ALT001" {
		t.Fatalf("expected ALT001, got %s", code)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, 7*24*time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "ALT001"); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(7*24*time.Hour + time.Minute)

	if _, err := store.Load(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisStoreCorruptedValueCleared(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	mr.Set(keyPrefix+"tok-1", "not a passport code")

	if _, err := store.Load(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for corrupted entry, got %v", err)
	}
	if mr.Exists(keyPrefix + "tok-1") {
		t.Fatalf("corrupted entry should be cleared")
	}
}

func TestRedisStoreClear(t *testing.T) {
	store, _ := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "ALT001"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx, "tok-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestRedisStoreSaveRefreshesExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "ALT001"); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(45 * time.Minute)
	if err := store.Save(ctx, "tok-1", "ALT001"); err != nil {
		t.Fatalf("refresh save: %v", err)
	}
	mr.FastForward(45 * time.Minute)

	if _, err := store.Load(ctx, "tok-1"); err != nil {
		t.Fatalf("expected session alive after refresh, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(7 * 24 * time.Hour)
	ctx := context.Background()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	if err := store.Save(ctx, "tok-1", "ALT777"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if code, err := store.Load(ctx, "tok-1"); err != nil || code != "ALT777" {
		t.Fatalf("round trip failed: %s %v", code, err)
	}

	store.SetClock(func() time.Time { return now.Add(7*24*time.Hour + time.Second) })

	if _, err := store.Load(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past expiry, got %v", err)
	}
	// Entry is gone even if the clock rolls back.
	store.SetClock(func() time.Time { return now })
	if _, err := store.Load(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired entry cleared, got %v", err)
	}
}
