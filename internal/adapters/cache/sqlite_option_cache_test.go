package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

func newTestSqliteCache(t *testing.T) *SqliteOptionCache {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := InitSqliteSchema(context.Background(), db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewSqliteOptionCache(db)
}

func TestSqliteOptionCacheRoundTrip(t *testing.T) {
	c := newTestSqliteCache(t)
	ctx := context.Background()

	options := []domain.TransportOption{
		{
			Mode:            domain.ModeFlight,
			Provider:        "Amadeus",
			Origin:          "PAR",
			Destination:     "MAD",
			DurationMinutes: 125,
			Stops:           0,
			Carriers:        []string{"AF"},
			Price:           &domain.Price{Amount: 89.99, Currency: "EUR"},
		},
	}

	if _, hit, err := c.Get(ctx, "Paris", "Madrid", "2026-11-15"); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Put(ctx, "Paris", "Madrid", "2026-11-15", options); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := c.Get(ctx, "Paris", "Madrid", "2026-11-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit after Put")
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 option, got %d", len(got))
	}
	if got[0].Price == nil || got[0].Price.Amount != 89.99 || got[0].Price.Currency != "EUR" {
		t.Fatalf("price corrupted by round trip: %+v", got[0].Price)
	}
	if len(got[0].Carriers) != 1 || got[0].Carriers[0] != "AF" {
		t.Fatalf("carriers corrupted by round trip: %v", got[0].Carriers)
	}
}

func TestSqliteOptionCacheReplaceUpdates(t *testing.T) {
	c := newTestSqliteCache(t)
	ctx := context.Background()

	first := []domain.TransportOption{{Mode: domain.ModeBus, Provider: "FlixBus", DurationMinutes: 300}}
	second := []domain.TransportOption{
		{Mode: domain.ModeBus, Provider: "FlixBus", DurationMinutes: 300},
		{Mode: domain.ModeTrain, Provider: "SNCF", DurationMinutes: 150},
	}

	if err := c.Put(ctx, "Brussels", "Amsterdam", "2026-11-15", first); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := c.Put(ctx, "Brussels", "Amsterdam", "2026-11-15", second); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, hit, err := c.Get(ctx, "Brussels", "Amsterdam", "2026-11-15")
	if err != nil || !hit {
		t.Fatalf("Get after replace: hit=%v err=%v", hit, err)
	}
	if len(got) != 2 {
		t.Fatalf("expected replaced entry with 2 options, got %d", len(got))
	}
}

func TestSqliteOptionCacheRejectsEmptyKeyParts(t *testing.T) {
	c := newTestSqliteCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "Paris", "", "2026-11-15", nil); err == nil {
		t.Fatal("expected error for empty destination")
	}
	if _, _, err := c.Get(ctx, "", "Madrid", "2026-11-15"); err == nil {
		t.Fatal("expected error for empty origin")
	}
}
