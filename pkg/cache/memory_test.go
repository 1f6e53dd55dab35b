package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", map[string]int{"n": 7}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got map[string]int
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["n"] != 7 {
		t.Fatalf("round trip lost value: %+v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	if err := mc.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, GenerateKeyWithParams("items", "", 1, 10), "a", time.Minute)
	mc.Set(ctx, GenerateKeyWithParams("items", "desk", 1, 10), "b", time.Minute)

	if err := mc.DeleteByPattern(ctx, BuildPattern("items")); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}

	var got string
	if err := mc.Get(ctx, GenerateKeyWithParams("items", "", 1, 10), &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after flush, got %v", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "a", 1, time.Minute)
	time.Sleep(2 * time.Millisecond)
	mc.Set(ctx, "b", 2, time.Minute)
	time.Sleep(2 * time.Millisecond)
	mc.Set(ctx, "c", 3, time.Minute)

	var got int
	if err := mc.Get(ctx, "a", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("oldest entry should have been evicted, got %v", err)
	}
	if err := mc.Get(ctx, "c", &got); err != nil {
		t.Fatalf("newest entry missing: %v", err)
	}
}
