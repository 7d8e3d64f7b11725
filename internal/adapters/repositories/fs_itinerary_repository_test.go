package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

func newTestRepo(t *testing.T) *FSItineraryRepository {
	t.Helper()

	repo, err := NewFSItineraryRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSItineraryRepository: %v", err)
	}
	return repo
}

func sampleItinerary(name string) *domain.Itinerary {
	return &domain.Itinerary{
		Name:          name,
		SavedAt:       time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Cities:        []string{"Paris", "Madrid", "Berlin"},
		DepartureDate: "2026-11-15",
		Notes:         "autumn trip",
		Cheapest: &domain.SavedRoute{
			Sequence:             []string{"Paris", "Madrid", "Berlin"},
			TotalPrice:           &domain.Price{Amount: 180, Currency: "EUR"},
			TotalDurationMinutes: 390,
		},
		Fastest: &domain.SavedRoute{
			Sequence:             []string{"Paris", "Berlin", "Madrid"},
			TotalPrice:           &domain.Price{Amount: 210, Currency: "EUR"},
			TotalDurationMinutes: 360,
		},
	}
}

func TestItineraryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := sampleItinerary("autumn-2026")
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "autumn-2026")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Name != want.Name || got.DepartureDate != want.DepartureDate || got.Notes != want.Notes {
		t.Fatalf("metadata corrupted by round trip: %+v", got)
	}
	if !got.SavedAt.Equal(want.SavedAt) {
		t.Fatalf("SavedAt = %v, want %v", got.SavedAt, want.SavedAt)
	}
	if len(got.Cities) != 3 || got.Cities[0] != "Paris" {
		t.Fatalf("cities corrupted by round trip: %v", got.Cities)
	}
	if got.Cheapest == nil || got.Cheapest.TotalPrice == nil || got.Cheapest.TotalPrice.Amount != 180 {
		t.Fatalf("cheapest route corrupted by round trip: %+v", got.Cheapest)
	}
	if got.Fastest == nil || got.Fastest.TotalDurationMinutes != 360 {
		t.Fatalf("fastest route corrupted by round trip: %+v", got.Fastest)
	}
}

func TestItineraryOverwrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := sampleItinerary("trip")
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := sampleItinerary("trip")
	second.Notes = "revised"
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := repo.Get(ctx, "trip")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Notes != "revised" {
		t.Fatalf("expected overwrite, got notes %q", got.Notes)
	}

	names, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected 1 itinerary after overwrite, got %v", names)
	}
}

func TestItineraryNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, ports.ErrItineraryNotFound) {
		t.Fatalf("expected ErrItineraryNotFound, got %v", err)
	}
}

func TestItineraryListSorted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"winter", "autumn", "spring"} {
		if err := repo.Save(ctx, sampleItinerary(name)); err != nil {
			t.Fatalf("Save %q: %v", name, err)
		}
	}

	names, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"autumn", "spring", "winter"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("List = %v, want %v", names, want)
		}
	}
}

func TestItinerarySanitizesName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	it := sampleItinerary("../escape attempt")
	if err := repo.Save(ctx, it); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "../escape attempt")
	if err != nil {
		t.Fatalf("Get with same raw name: %v", err)
	}
	if got.Name != "../escape attempt" {
		t.Fatalf("stored name = %q", got.Name)
	}

	names, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "___escape_attempt" {
		t.Fatalf("expected sanitized file name, got %v", names)
	}
}

func TestItineraryRejectsEmptyName(t *testing.T) {
	repo := newTestRepo(t)

	it := sampleItinerary("  ")
	if err := repo.Save(context.Background(), it); err == nil {
		t.Fatal("expected error for blank itinerary name")
	}
}
