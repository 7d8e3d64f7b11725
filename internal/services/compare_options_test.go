package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

func TestCompareOptions(t *testing.T) {
	options := []domain.TransportOption{
		priced("FlixBus", 30, 720),
		priced("Amadeus", 90, 120),
		priced("SNCF", 75, 480),
	}

	analysis, err := CompareOptions(options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.Total != 3 {
		t.Fatalf("total = %d, want 3", analysis.Total)
	}
	if analysis.Cheapest == nil || analysis.Cheapest.Provider != "FlixBus" {
		t.Fatalf("cheapest = %+v, want FlixBus", analysis.Cheapest)
	}
	if analysis.Fastest == nil || analysis.Fastest.Provider != "Amadeus" {
		t.Fatalf("fastest = %+v, want Amadeus", analysis.Fastest)
	}
	if analysis.SameOption {
		t.Fatalf("cheapest and fastest are distinct options")
	}

	if len(analysis.Discarded) != 1 {
		t.Fatalf("discarded = %d entries, want 1", len(analysis.Discarded))
	}
	d := analysis.Discarded[0]
	if d.Option.Provider != "SNCF" {
		t.Fatalf("discarded option = %q, want SNCF", d.Option.Provider)
	}
	wantReasons := []string{
		"45.00 EUR more expensive than cheapest",
		"6h slower than fastest",
	}
	if !reflect.DeepEqual(d.Reasons, wantReasons) {
		t.Fatalf("reasons = %v, want %v", d.Reasons, wantReasons)
	}
}

func TestCompareOptionsSameWinner(t *testing.T) {
	options := []domain.TransportOption{
		priced("Amadeus", 50, 100),
		priced("SNCF", 80, 300),
	}

	analysis, err := CompareOptions(options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !analysis.SameOption {
		t.Fatalf("expected one option to win both dimensions")
	}
	if len(analysis.Discarded) != 1 {
		t.Fatalf("discarded = %d entries, want 1", len(analysis.Discarded))
	}
}

func TestCompareOptionsUnpricedStillFastest(t *testing.T) {
	options := []domain.TransportOption{
		priced("FlixBus", 25, 600),
		unpriced("SNCF", 90),
	}

	analysis, err := CompareOptions(options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Cheapest == nil || analysis.Cheapest.Provider != "FlixBus" {
		t.Fatalf("cheapest = %+v, want FlixBus", analysis.Cheapest)
	}
	// An unpriced option is excluded from cost comparison but can still be
	// the fastest.
	if analysis.Fastest == nil || analysis.Fastest.Provider != "SNCF" {
		t.Fatalf("fastest = %+v, want SNCF", analysis.Fastest)
	}
}

func TestCompareOptionsNoPrices(t *testing.T) {
	analysis, err := CompareOptions([]domain.TransportOption{
		unpriced("SNCF", 90),
		unpriced("SNCF", 120),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Cheapest != nil {
		t.Fatalf("cheapest should be nil without prices, got %+v", analysis.Cheapest)
	}
	if analysis.Fastest == nil || analysis.Fastest.DurationMinutes != 90 {
		t.Fatalf("fastest = %+v, want the 90m option", analysis.Fastest)
	}
}

func TestCompareOptionsEmpty(t *testing.T) {
	if _, err := CompareOptions(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
