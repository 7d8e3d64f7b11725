package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/platform/obs"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

// ErrInvalidInput marks optimization requests that are rejected before any
// leg search is attempted. Callers can map it to a client error with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// MaxOptimizeCities bounds the permutation search. Orderings grow as (n-1)!,
// so trips beyond this size are rejected rather than attempted.
const MaxOptimizeCities = 8

type legKey struct {
	origin      string
	destination string
}

// legOutcome is the memoized result of searching one leg: either the chosen
// representative option or the reason the leg is unroutable.
type legOutcome struct {
	option domain.TransportOption
	ok     bool
	reason string
}

// evaluatedOrder carries the totals of one candidate visiting order.
type evaluatedOrder struct {
	sequence     []string
	legs         []domain.Leg
	totalPrice   *domain.Price
	totalMinutes int
	routable     bool
	reason       string
}

// Optimize determines the visiting order of a multi-city trip that minimizes
// total fare, and the order that minimizes total travel time.
//
// The first city is fixed as the trip's origin; all orderings are
// permutations of the remaining cities appended after it. Each leg is
// represented by the cheapest priced option the searcher returns for that
// pair (ties by shortest duration, then first-encountered). The search is an
// exhaustive (n-1)! enumeration: trip sizes are bounded by realistic human
// itineraries, and being able to explain every discarded alternative is worth
// more here than asymptotic efficiency.
//
// Leg searches are memoized per call, keyed by the directed city pair, so the
// same pair is never searched twice within one run. Searcher errors and empty
// results both mark the orderings that depend on that leg as unroutable; they
// are reported in Discarded rather than aborting the run. When no ordering is
// routable, Cheapest and Fastest are both nil and no error is returned.
//
// Given identical inputs and stable searcher responses the result is
// identical on every call.
func Optimize(
	ctx context.Context,
	cities []string,
	search ports.LegSearcher,
) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "services.Optimize")(&err)

	trimmed, err := validateCities(cities)
	if err != nil {
		return nil, err
	}

	orderings := candidateOrderings(trimmed)

	memo := make(map[legKey]legOutcome, len(trimmed)*(len(trimmed)-1))
	evaluated := make([]evaluatedOrder, 0, len(orderings))
	for _, seq := range orderings {
		evaluated = append(evaluated, evaluateOrder(ctx, seq, search, memo))
	}

	cheapestIdx, fastestIdx := selectWinners(evaluated)

	result := &domain.OptimizationResult{
		Cities:    trimmed,
		Evaluated: len(evaluated),
	}
	if cheapestIdx >= 0 {
		result.Cheapest = toRouteOrder(evaluated[cheapestIdx])
		result.Fastest = toRouteOrder(evaluated[fastestIdx])
		result.SameOrder = cheapestIdx == fastestIdx
	}

	for i, ord := range evaluated {
		if i == cheapestIdx || i == fastestIdx {
			continue
		}
		result.Discarded = append(result.Discarded, discard(ord, evaluated, cheapestIdx, fastestIdx))
	}

	return result, nil
}

// validateCities rejects bad input before any search happens.
func validateCities(cities []string) ([]string, error) {
	trimmed := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("optimize route order: city name must be non-empty: %w", ErrInvalidInput)
		}
		trimmed = append(trimmed, c)
	}

	if len(trimmed) < 3 {
		return nil, fmt.Errorf("optimize route order: need at least 3 cities, got %d: %w", len(trimmed), ErrInvalidInput)
	}
	if len(trimmed) > MaxOptimizeCities {
		return nil, fmt.Errorf("optimize route order: at most %d cities supported, got %d: %w", MaxOptimizeCities, len(trimmed), ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(trimmed))
	for _, c := range trimmed {
		if _, ok := seen[c]; ok {
			return nil, fmt.Errorf("optimize route order: duplicate city %q: %w", c, ErrInvalidInput)
		}
		seen[c] = struct{}{}
	}

	return trimmed, nil
}

// candidateOrderings returns the first city followed by every permutation of
// the rest, in a deterministic order derived from the input sequence.
func candidateOrderings(cities []string) [][]string {
	rest := permute(cities[1:])
	out := make([][]string, 0, len(rest))
	for _, p := range rest {
		seq := make([]string, 0, len(cities))
		seq = append(seq, cities[0])
		seq = append(seq, p...)
		out = append(out, seq)
	}
	return out
}

func permute(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{slices.Clone(items)}
	}

	out := make([][]string, 0)
	for i := range items {
		rest := make([]string, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permute(rest) {
			seq := make([]string, 0, len(items))
			seq = append(seq, items[i])
			seq = append(seq, p...)
			out = append(out, seq)
		}
	}
	return out
}

// evaluateOrder resolves every leg of one visiting order, reusing memoized
// leg outcomes where available.
func evaluateOrder(
	ctx context.Context,
	sequence []string,
	search ports.LegSearcher,
	memo map[legKey]legOutcome,
) evaluatedOrder {
	ord := evaluatedOrder{
		sequence: sequence,
		legs:     make([]domain.Leg, 0, len(sequence)-1),
		routable: true,
	}

	var total float64
	currency := ""

	for i := 0; i < len(sequence)-1; i++ {
		origin, destination := sequence[i], sequence[i+1]

		key := legKey{origin: origin, destination: destination}
		outcome, ok := memo[key]
		if !ok {
			outcome = resolveLeg(ctx, origin, destination, search)
			memo[key] = outcome
		}

		if !outcome.ok {
			ord.routable = false
			ord.reason = outcome.reason
			ord.legs = nil
			ord.totalMinutes = 0
			return ord
		}

		ord.legs = append(ord.legs, domain.Leg{
			Origin:      origin,
			Destination: destination,
			Option:      outcome.option,
		})
		total += outcome.option.Price.Amount
		if currency == "" {
			currency = outcome.option.Price.Currency
		}
		ord.totalMinutes += outcome.option.DurationMinutes
	}

	ord.totalPrice = &domain.Price{Amount: total, Currency: currency}
	return ord
}

// resolveLeg searches one directed pair and picks its representative option:
// the lowest priced one, ties broken by shortest duration, then by position
// in the search result. Searcher failures degrade to "no options".
func resolveLeg(
	ctx context.Context,
	origin string,
	destination string,
	search ports.LegSearcher,
) legOutcome {
	options, err := search.SearchLeg(ctx, origin, destination)
	if err != nil || len(options) == 0 {
		return legOutcome{reason: fmt.Sprintf("no available options for leg %s → %s", origin, destination)}
	}

	best := -1
	for i, opt := range options {
		if !opt.Priced() {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if opt.Price.Amount < options[best].Price.Amount ||
			(opt.Price.Amount == options[best].Price.Amount && opt.DurationMinutes < options[best].DurationMinutes) {
			best = i
		}
	}

	if best < 0 {
		return legOutcome{reason: fmt.Sprintf("no priced options for leg %s → %s", origin, destination)}
	}

	return legOutcome{option: options[best], ok: true}
}

// selectWinners returns the indices of the cheapest and fastest routable
// orderings, or (-1, -1) when none is routable. Ties resolve by the other
// dimension first and the lexicographically smaller sequence last, so the
// selection is total and reproducible.
func selectWinners(evaluated []evaluatedOrder) (cheapest, fastest int) {
	cheapest, fastest = -1, -1
	for i, ord := range evaluated {
		if !ord.routable {
			continue
		}
		if cheapest < 0 || cheaper(ord, evaluated[cheapest]) {
			cheapest = i
		}
		if fastest < 0 || faster(ord, evaluated[fastest]) {
			fastest = i
		}
	}
	return cheapest, fastest
}

func cheaper(a, b evaluatedOrder) bool {
	if a.totalPrice.Amount != b.totalPrice.Amount {
		return a.totalPrice.Amount < b.totalPrice.Amount
	}
	if a.totalMinutes != b.totalMinutes {
		return a.totalMinutes < b.totalMinutes
	}
	return slices.Compare(a.sequence, b.sequence) < 0
}

func faster(a, b evaluatedOrder) bool {
	if a.totalMinutes != b.totalMinutes {
		return a.totalMinutes < b.totalMinutes
	}
	if a.totalPrice.Amount != b.totalPrice.Amount {
		return a.totalPrice.Amount < b.totalPrice.Amount
	}
	return slices.Compare(a.sequence, b.sequence) < 0
}

// discard annotates a non-winning ordering with the deltas that cost it the
// comparison against whichever winners exist.
func discard(ord evaluatedOrder, evaluated []evaluatedOrder, cheapestIdx, fastestIdx int) domain.DiscardedOrder {
	d := domain.DiscardedOrder{
		Sequence:             ord.sequence,
		TotalPrice:           ord.totalPrice,
		TotalDurationMinutes: ord.totalMinutes,
	}

	if !ord.routable {
		d.Reasons = []string{ord.reason}
		return d
	}

	cheapest := evaluated[cheapestIdx]
	if diff := ord.totalPrice.Amount - cheapest.totalPrice.Amount; diff > 0 {
		d.Reasons = append(d.Reasons, fmt.Sprintf("%.2f %s more than cheapest order", diff, ord.totalPrice.Currency))
	}

	fastest := evaluated[fastestIdx]
	if diff := ord.totalMinutes - fastest.totalMinutes; diff > 0 {
		d.Reasons = append(d.Reasons, fmt.Sprintf("%s slower than fastest order", formatMinutes(diff)))
	}

	if len(d.Reasons) == 0 {
		d.Reasons = []string{"not selected as cheapest or fastest order"}
	}
	return d
}

func toRouteOrder(ord evaluatedOrder) *domain.RouteOrder {
	return &domain.RouteOrder{
		Sequence:             ord.sequence,
		Legs:                 ord.legs,
		TotalPrice:           ord.totalPrice,
		TotalDurationMinutes: ord.totalMinutes,
	}
}

// formatMinutes renders a duration delta like "45m", "2h" or "5h30m".
func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
