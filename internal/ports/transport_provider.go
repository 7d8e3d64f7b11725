package ports

import (
	"context"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// SearchQuery describes one leg search against an external transport API.
// Date is a calendar day in YYYY-MM-DD form.
type SearchQuery struct {
	Origin      string
	Destination string
	Date        string
	Adults      int
	MaxResults  int
}

// Port: a boundary to one external transportation search API (flights,
// trains, or buses).
type TransportProvider interface {
	// Mode reports which kind of options this provider returns.
	Mode() domain.TransportMode
	// Search returns options for the queried leg. No results is an empty
	// slice, not an error.
	Search(ctx context.Context, q SearchQuery) ([]domain.TransportOption, error)
}
