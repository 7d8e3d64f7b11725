package domain

import "time"

// SavedRoute is the persisted summary of a winning route order.
type SavedRoute struct {
	Sequence             []string
	TotalPrice           *Price
	TotalDurationMinutes int
}

// Represents a travel itinerary a user chose to keep.
// An Itinerary records the trip parameters and the winning orderings of an
// optimization run; full per-leg option detail is intentionally not stored.
type Itinerary struct {
	Name          string
	SavedAt       time.Time
	Cities        []string
	DepartureDate string
	Notes         string
	Cheapest      *SavedRoute
	Fastest       *SavedRoute
}
