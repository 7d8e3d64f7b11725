package domain

// Leg is one directed origin->destination segment of a multi-stop trip,
// together with the option chosen to represent it.
type Leg struct {
	Origin      string
	Destination string
	Option      TransportOption
}

// RouteOrder is one specific sequence in which the trip's cities are visited.
// The first city is the trip's fixed origin. Legs holds len(Sequence)-1
// entries, one per consecutive pair. TotalPrice is the sum of the chosen leg
// fares and TotalDurationMinutes the sum of the same options' durations; the
// per-leg choice is made once (cheapest by price) and represents the ordering
// in both dimensions.
type RouteOrder struct {
	Sequence             []string
	Legs                 []Leg
	TotalPrice           *Price
	TotalDurationMinutes int
}

// DiscardedOrder is a visiting order that was evaluated but not selected.
// Unroutable orders (some leg had no priced option) carry a nil TotalPrice
// and a zero duration.
type DiscardedOrder struct {
	Sequence             []string
	TotalPrice           *Price
	TotalDurationMinutes int
	Reasons              []string
}

// OptimizationResult is the output of one route-order optimization run.
// Cheapest and Fastest are nil when no ordering was routable; SameOrder is
// true when a single ordering won both dimensions. Every evaluated ordering
// appears exactly once across Cheapest, Fastest, and Discarded.
type OptimizationResult struct {
	Cities    []string
	Evaluated int
	Cheapest  *RouteOrder
	Fastest   *RouteOrder
	SameOrder bool
	Discarded []DiscardedOrder
}
