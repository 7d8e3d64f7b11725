package domain

import "time"

// TransportMode identifies the kind of service behind a bookable option.
type TransportMode string

const (
	ModeFlight TransportMode = "flight"
	ModeTrain  TransportMode = "train"
	ModeBus    TransportMode = "bus"
)

// Price is a currency-tagged fare amount.
type Price struct {
	Amount   float64
	Currency string
}

// Represents one bookable travel option for a single origin->destination leg.
// Options are produced by transport search adapters and consumed transiently
// by the comparison and optimization services; they are not persisted here.
// A nil Price means the upstream source returned no fare for the option.
type TransportOption struct {
	Mode            TransportMode
	Provider        string
	Price           *Price
	DurationMinutes int
	Departure       time.Time
	Arrival         time.Time
	Origin          string
	Destination     string
	Stops           int
	Carriers        []string
}

// Priced reports whether the option carries a usable fare.
func (o TransportOption) Priced() bool {
	return o.Price != nil && o.Price.Amount >= 0
}

// DiscardedOption is a non-winning option from a single-leg comparison,
// annotated with the reasons it lost to the recommended options.
type DiscardedOption struct {
	Option  TransportOption
	Reasons []string
}

// OptionAnalysis is the outcome of comparing all options for one leg.
// Cheapest is nil when no option carries a price; Fastest is nil when no
// option carries a positive duration.
type OptionAnalysis struct {
	Total      int
	Cheapest   *TransportOption
	Fastest    *TransportOption
	SameOption bool
	Discarded  []DiscardedOption
}
