package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

func newTestRedisCache(t *testing.T) *RedisOptionCache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisOptionCache(client, time.Hour)
}

func TestRedisOptionCacheRoundTrip(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	options := []domain.TransportOption{
		{
			Mode:            domain.ModeTrain,
			Provider:        "SNCF",
			Origin:          "Paris",
			Destination:     "Lyon",
			DurationMinutes: 115,
			Price:           &domain.Price{Amount: 45, Currency: "EUR"},
		},
		{
			Mode:            domain.ModeBus,
			Provider:        "FlixBus",
			Origin:          "Paris",
			Destination:     "Lyon",
			DurationMinutes: 360,
		},
	}

	if _, hit, err := c.Get(ctx, "Paris", "Lyon", "2026-11-15"); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Put(ctx, "Paris", "Lyon", "2026-11-15", options); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := c.Get(ctx, "Paris", "Lyon", "2026-11-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit after Put")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 options, got %d", len(got))
	}
	if got[0].Provider != "SNCF" || got[0].Price == nil || got[0].Price.Amount != 45 {
		t.Fatalf("first option corrupted by round trip: %+v", got[0])
	}
	if got[1].Price != nil {
		t.Fatalf("unpriced option came back priced: %+v", got[1])
	}
}

func TestRedisOptionCacheKeysByDate(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	options := []domain.TransportOption{{Mode: domain.ModeFlight, Provider: "Amadeus", DurationMinutes: 120}}
	if err := c.Put(ctx, "Madrid", "Berlin", "2026-11-15", options); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, hit, err := c.Get(ctx, "Madrid", "Berlin", "2026-11-16"); err != nil || hit {
		t.Fatalf("different date must miss, got hit=%v err=%v", hit, err)
	}
	if _, hit, err := c.Get(ctx, "Berlin", "Madrid", "2026-11-15"); err != nil || hit {
		t.Fatalf("reversed leg must miss, got hit=%v err=%v", hit, err)
	}
}

func TestRedisOptionCacheEmptyResultIsAHit(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "Oslo", "Athens", "2026-11-15", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := c.Get(ctx, "Oslo", "Athens", "2026-11-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("cached empty result must count as a hit")
	}
	if len(got) != 0 {
		t.Fatalf("expected no options, got %d", len(got))
	}
}

func TestRedisOptionCacheRejectsEmptyKeyParts(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "", "Lyon", "2026-11-15", nil); err == nil {
		t.Fatal("expected error for empty origin")
	}
	if _, _, err := c.Get(ctx, "Paris", "Lyon", ""); err == nil {
		t.Fatal("expected error for empty date")
	}
}
