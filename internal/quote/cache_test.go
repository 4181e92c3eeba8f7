package quote_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sitc-travel/backend-proposal/internal/quote"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := quote.NewCache(client, time.Minute)
	ctx := context.Background()
	modified := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	q := quote.Quote{Currency: "SAR", VatPercent: 15, SharedTotal: 5575}
	if err := cache.Put(ctx, "p1", modified, q); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := cache.Get(ctx, "p1", modified)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Currency != "SAR" || got.SharedTotal != 5575 {
		t.Fatalf("unexpected cached quote %+v", got)
	}
}

func TestCacheMissesOnNewerVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := quote.NewCache(client, time.Minute)
	ctx := context.Background()
	v1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	v2 := v1.Add(time.Second)

	if err := cache.Put(ctx, "p1", v1, quote.Quote{Currency: "SAR"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := cache.Get(ctx, "p1", v2); ok {
		t.Fatal("edit must invalidate the cached quote")
	}
}
