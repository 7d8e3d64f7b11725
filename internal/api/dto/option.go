package dto

import (
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

type PriceDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type OptionDTO struct {
	Mode            string    `json:"mode"`
	Provider        string    `json:"provider"`
	Price           *PriceDTO `json:"price,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	Origin          string    `json:"origin,omitempty"`
	Destination     string    `json:"destination,omitempty"`
	Stops           int       `json:"stops"`
	Carriers        []string  `json:"carriers,omitempty"`
}

func PriceFromDomain(p *domain.Price) *PriceDTO {
	if p == nil {
		return nil
	}
	return &PriceDTO{Amount: p.Amount, Currency: p.Currency}
}

func (p *PriceDTO) ToDomain() *domain.Price {
	if p == nil {
		return nil
	}
	return &domain.Price{Amount: p.Amount, Currency: p.Currency}
}

func OptionFromDomain(o domain.TransportOption) OptionDTO {
	return OptionDTO{
		Mode:            string(o.Mode),
		Provider:        o.Provider,
		Price:           PriceFromDomain(o.Price),
		DurationMinutes: o.DurationMinutes,
		Departure:       o.Departure,
		Arrival:         o.Arrival,
		Origin:          o.Origin,
		Destination:     o.Destination,
		Stops:           o.Stops,
		Carriers:        o.Carriers,
	}
}

func (o OptionDTO) ToDomain() domain.TransportOption {
	return domain.TransportOption{
		Mode:            domain.TransportMode(o.Mode),
		Provider:        o.Provider,
		Price:           o.Price.ToDomain(),
		DurationMinutes: o.DurationMinutes,
		Departure:       o.Departure,
		Arrival:         o.Arrival,
		Origin:          o.Origin,
		Destination:     o.Destination,
		Stops:           o.Stops,
		Carriers:        o.Carriers,
	}
}

type SearchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type SearchResponse struct {
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Date        string      `json:"date"`
	Options     []OptionDTO `json:"options"`
}

type AnalyzeRequest struct {
	Options []OptionDTO `json:"options"`
}

type DiscardedOptionDTO struct {
	Option  OptionDTO `json:"option"`
	Reasons []string  `json:"reasons"`
}

type AnalyzeResponse struct {
	Total      int                  `json:"total"`
	Cheapest   *OptionDTO           `json:"cheapest,omitempty"`
	Fastest    *OptionDTO           `json:"fastest,omitempty"`
	SameOption bool                 `json:"same_option"`
	Discarded  []DiscardedOptionDTO `json:"discarded"`
}

func AnalyzeResponseFromDomain(a *domain.OptionAnalysis) AnalyzeResponse {
	res := AnalyzeResponse{
		Total:      a.Total,
		SameOption: a.SameOption,
		Discarded:  make([]DiscardedOptionDTO, 0, len(a.Discarded)),
	}

	if a.Cheapest != nil {
		o := OptionFromDomain(*a.Cheapest)
		res.Cheapest = &o
	}
	if a.Fastest != nil {
		o := OptionFromDomain(*a.Fastest)
		res.Fastest = &o
	}
	for _, d := range a.Discarded {
		res.Discarded = append(res.Discarded, DiscardedOptionDTO{
			Option:  OptionFromDomain(d.Option),
			Reasons: d.Reasons,
		})
	}

	return res
}
