package transport

import (
	"context"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// MockLeg is one canned directed pair with its search results.
type MockLeg struct {
	From, To string
	Options  []domain.TransportOption
}

// MockLegSearcher serves canned options from memory and counts how often each
// pair is searched. Pairs without an entry return no options.
type MockLegSearcher struct {
	m     map[string][]domain.TransportOption
	calls map[string]int
}

func NewMockLegSearcher(legs []MockLeg) *MockLegSearcher {
	m := make(map[string][]domain.TransportOption, len(legs))
	for _, l := range legs {
		m[l.From+"|"+l.To] = l.Options
	}
	return &MockLegSearcher{m: m, calls: make(map[string]int)}
}

func (s *MockLegSearcher) SearchLeg(ctx context.Context, origin, destination string) ([]domain.TransportOption, error) {
	key := origin + "|" + destination
	s.calls[key]++
	return s.m[key], nil
}

// Calls reports how many times the pair was searched.
func (s *MockLegSearcher) Calls(origin, destination string) int {
	return s.calls[origin+"|"+destination]
}
