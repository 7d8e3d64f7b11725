package dto

import "github.com/luizlzg/mcp-agent-transport/internal/domain"

type OptimizeRequest struct {
	Cities        []string `json:"cities"`
	DepartureDate string   `json:"departure_date"`
}

type LegDTO struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Option      OptionDTO `json:"option"`
}

type RouteOrderDTO struct {
	Sequence             []string  `json:"sequence"`
	Legs                 []LegDTO  `json:"legs"`
	TotalPrice           *PriceDTO `json:"total_price,omitempty"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
}

type DiscardedOrderDTO struct {
	Sequence             []string  `json:"sequence"`
	TotalPrice           *PriceDTO `json:"total_price,omitempty"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
	Reasons              []string  `json:"reasons"`
}

type OptimizeResponse struct {
	Cities    []string            `json:"cities"`
	Evaluated int                 `json:"evaluated"`
	Cheapest  *RouteOrderDTO      `json:"cheapest,omitempty"`
	Fastest   *RouteOrderDTO      `json:"fastest,omitempty"`
	SameOrder bool                `json:"same_order"`
	Discarded []DiscardedOrderDTO `json:"discarded"`
}

func routeOrderFromDomain(o *domain.RouteOrder) *RouteOrderDTO {
	if o == nil {
		return nil
	}

	legs := make([]LegDTO, 0, len(o.Legs))
	for _, l := range o.Legs {
		legs = append(legs, LegDTO{
			Origin:      l.Origin,
			Destination: l.Destination,
			Option:      OptionFromDomain(l.Option),
		})
	}

	return &RouteOrderDTO{
		Sequence:             o.Sequence,
		Legs:                 legs,
		TotalPrice:           PriceFromDomain(o.TotalPrice),
		TotalDurationMinutes: o.TotalDurationMinutes,
	}
}

func OptimizeResponseFromDomain(r *domain.OptimizationResult) OptimizeResponse {
	res := OptimizeResponse{
		Cities:    r.Cities,
		Evaluated: r.Evaluated,
		Cheapest:  routeOrderFromDomain(r.Cheapest),
		Fastest:   routeOrderFromDomain(r.Fastest),
		SameOrder: r.SameOrder,
		Discarded: make([]DiscardedOrderDTO, 0, len(r.Discarded)),
	}

	for _, d := range r.Discarded {
		res.Discarded = append(res.Discarded, DiscardedOrderDTO{
			Sequence:             d.Sequence,
			TotalPrice:           PriceFromDomain(d.TotalPrice),
			TotalDurationMinutes: d.TotalDurationMinutes,
			Reasons:              d.Reasons,
		})
	}

	return res
}
