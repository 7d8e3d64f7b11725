package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/adapters/repositories"
	"github.com/luizlzg/mcp-agent-transport/internal/api/dto"
)

func newItineraryHandler(t *testing.T) *ItineraryHandler {
	t.Helper()

	repo, err := repositories.NewFSItineraryRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSItineraryRepository: %v", err)
	}

	fixed := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	return &ItineraryHandler{Repo: repo, Now: func() time.Time { return fixed }}
}

func TestItinerarySaveAndFetch(t *testing.T) {
	h := newItineraryHandler(t)

	body := `{
		"name": "autumn-2026",
		"cities": ["Paris", "Madrid", "Berlin"],
		"departure_date": "2026-11-15",
		"notes": "autumn trip",
		"cheapest_route": {
			"sequence": ["Paris", "Madrid", "Berlin"],
			"total_price": {"amount": 180, "currency": "EUR"},
			"total_duration_minutes": 390
		},
		"fastest_route": null
	}`

	req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Collection(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/itineraries/autumn-2026", nil)
	rec = httptest.NewRecorder()
	h.ByName(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got dto.ItineraryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Name != "autumn-2026" || got.DepartureDate != "2026-11-15" {
		t.Fatalf("fetched itinerary corrupted: %+v", got)
	}
	if !got.SavedAt.Equal(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("SavedAt = %v", got.SavedAt)
	}
	if got.Cheapest == nil || got.Cheapest.TotalPrice == nil || got.Cheapest.TotalPrice.Amount != 180 {
		t.Fatalf("cheapest route corrupted: %+v", got.Cheapest)
	}
	if got.Fastest != nil {
		t.Fatalf("expected nil fastest route, got %+v", got.Fastest)
	}
}

func TestItineraryListEndpoint(t *testing.T) {
	h := newItineraryHandler(t)

	for _, name := range []string{"b-trip", "a-trip"} {
		body := `{"name": "` + name + `", "cities": ["Paris", "Madrid", "Berlin"], "departure_date": "2026-11-15"}`
		req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Collection(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("save %q status = %d", name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
	rec := httptest.NewRecorder()
	h.Collection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var got dto.ListItinerariesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Itineraries) != 2 || got.Itineraries[0] != "a-trip" || got.Itineraries[1] != "b-trip" {
		t.Fatalf("Itineraries = %v, want sorted [a-trip b-trip]", got.Itineraries)
	}
}

func TestItineraryFetchMissing(t *testing.T) {
	h := newItineraryHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/itineraries/nope", nil)
	rec := httptest.NewRecorder()
	h.ByName(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestItinerarySaveValidation(t *testing.T) {
	h := newItineraryHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "blank name", body: `{"name": "  ", "cities": ["Paris", "Madrid", "Berlin"]}`},
		{name: "no cities", body: `{"name": "trip", "cities": []}`},
		{name: "bad json", body: `{"name": `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Collection(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}
