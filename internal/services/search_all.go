package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/platform/obs"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

// defaultMaxResults bounds how many options each provider is asked for.
const defaultMaxResults = 3

// maxFutureDays is the search horizon most transport APIs accept.
const maxFutureDays = 330

// TransportSearch aggregates leg searches across all configured transport
// providers (flights, trains, buses) behind an optional persistent cache.
//
// Provider failures are degraded to "no options from that provider" so one
// flaky upstream never empties the whole result set. The merged result is
// deterministically sorted: priced options first by fare, unpriced ones last.
type TransportSearch struct {
	providers []ports.TransportProvider
	cache     ports.OptionCache
}

// NewTransportSearch wires the aggregator. cache may be nil to disable
// persistent caching.
func NewTransportSearch(providers []ports.TransportProvider, cache ports.OptionCache) *TransportSearch {
	return &TransportSearch{providers: providers, cache: cache}
}

// Search returns all options for one leg on the given date, merged across
// providers.
func (s *TransportSearch) Search(
	ctx context.Context,
	origin string,
	destination string,
	date string,
) (_ []domain.TransportOption, err error) {
	defer obs.Time(ctx, "search.Search")(&err)

	origin = normalizeCity(origin)
	destination = normalizeCity(destination)

	if origin == "" || destination == "" {
		return nil, fmt.Errorf("search transport: origin and destination must be non-empty: %w", ErrInvalidInput)
	}
	if strings.EqualFold(origin, destination) {
		return nil, fmt.Errorf("search transport: origin and destination must be different: %w", ErrInvalidInput)
	}

	// Check the persistent cache before issuing external API calls.
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, origin, destination, date)
		if err != nil {
			log.Printf("option cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	merged, anySucceeded := s.fanOut(ctx, ports.SearchQuery{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Adults:      1,
		MaxResults:  defaultMaxResults,
	})

	sortOptions(merged)

	// A genuinely empty result (some provider answered, no service on the
	// leg) is worth caching; a total provider outage is not, or a transient
	// failure would be remembered as "no options".
	if s.cache != nil && anySucceeded {
		if err := s.cache.Put(ctx, origin, destination, date, merged); err != nil {
			log.Printf("option cache write failed: %v", err)
		}
	}

	return merged, nil
}

// ForDate binds a departure date and returns the per-leg search collaborator
// the route-order optimizer consumes. Every leg of one optimization run is
// searched on the trip's departure date.
func (s *TransportSearch) ForDate(date string) ports.LegSearcher {
	return ports.LegSearcherFunc(func(ctx context.Context, origin, destination string) ([]domain.TransportOption, error) {
		return s.Search(ctx, origin, destination, date)
	})
}

type providerResult struct {
	mode    domain.TransportMode
	options []domain.TransportOption
	err     error
}

// fanOut queries every provider concurrently and merges their results in the
// providers' configured order, regardless of completion order. anySucceeded
// reports whether at least one provider answered.
func (s *TransportSearch) fanOut(ctx context.Context, q ports.SearchQuery) (merged []domain.TransportOption, anySucceeded bool) {
	results := make([]providerResult, len(s.providers))

	var wg sync.WaitGroup
	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p ports.TransportProvider) {
			defer wg.Done()
			opts, err := p.Search(ctx, q)
			results[i] = providerResult{mode: p.Mode(), options: opts, err: err}
		}(i, p)
	}
	wg.Wait()

	merged = make([]domain.TransportOption, 0)
	for _, r := range results {
		if r.err != nil {
			log.Printf("provider search failed: mode=%s %s -> %s: %v", r.mode, q.Origin, q.Destination, r.err)
			continue
		}
		anySucceeded = true
		merged = append(merged, r.options...)
	}
	return merged, anySucceeded
}

// sortOptions orders priced options by fare before all unpriced ones, with
// duration and provider name as stable tie-breakers.
func sortOptions(options []domain.TransportOption) {
	slices.SortStableFunc(options, func(a, b domain.TransportOption) int {
		ap, bp := a.Priced(), b.Priced()
		if ap != bp {
			if ap {
				return -1
			}
			return 1
		}
		if ap && a.Price.Amount != b.Price.Amount {
			if a.Price.Amount < b.Price.Amount {
				return -1
			}
			return 1
		}
		if a.DurationMinutes != b.DurationMinutes {
			return a.DurationMinutes - b.DurationMinutes
		}
		return strings.Compare(a.Provider, b.Provider)
	})
}

func normalizeCity(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidateDepartureDate checks that date is a YYYY-MM-DD calendar day, not in
// the past and within the horizon transport APIs accept. now anchors "today".
func ValidateDepartureDate(date string, now time.Time) error {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", date, ErrInvalidInput)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return fmt.Errorf("date %s is in the past: %w", date, ErrInvalidInput)
	}
	if d.After(today.AddDate(0, 0, maxFutureDays)) {
		return fmt.Errorf("date %s is more than %d days ahead: %w", date, maxFutureDays, ErrInvalidInput)
	}
	return nil
}
