package ports

import (
	"context"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// Contract for retrieving travel options for a single directed leg.
type LegSearcher interface {
	// Return all known options for traveling origin -> destination.
	// An empty slice means "no options exist" and is not an error; errors
	// are reserved for genuine transport failures. Within one optimization
	// run repeated calls for the same pair must return a stable result.
	SearchLeg(ctx context.Context, origin string, destination string) ([]domain.TransportOption, error)
}

// LegSearcherFunc adapts a plain function to the LegSearcher interface.
type LegSearcherFunc func(ctx context.Context, origin string, destination string) ([]domain.TransportOption, error)

func (f LegSearcherFunc) SearchLeg(ctx context.Context, origin string, destination string) ([]domain.TransportOption, error) {
	return f(ctx, origin, destination)
}
