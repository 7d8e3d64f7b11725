package ports

import (
	"context"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// Contract for a persistent cache of leg search results, keyed by the
// directed city pair and the departure date. This cache outlives individual
// optimization runs; the optimizer's own per-run memoization is separate.
type OptionCache interface {
	// Get returns the cached options and whether the key was present.
	Get(ctx context.Context, origin, destination, date string) ([]domain.TransportOption, bool, error)
	// Put stores the options for the key, replacing any previous entry.
	Put(ctx context.Context, origin, destination, date string, options []domain.TransportOption) error
}
