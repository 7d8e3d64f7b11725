package ports

import (
	"context"
	"errors"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// ErrItineraryNotFound is returned by Get when no itinerary has the name.
var ErrItineraryNotFound = errors.New("itinerary not found")

// Port: a boundary for storing and retrieving saved itineraries.
type ItineraryRepository interface {
	// Save stores the itinerary under its name, replacing any previous one.
	Save(ctx context.Context, it *domain.Itinerary) error
	// Get retrieves a saved itinerary by name.
	Get(ctx context.Context, name string) (*domain.Itinerary, error)
	// List returns the names of all saved itineraries in sorted order.
	List(ctx context.Context) ([]string, error)
}
