package dto

import (
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

type SavedRouteDTO struct {
	Sequence             []string  `json:"sequence"`
	TotalPrice           *PriceDTO `json:"total_price,omitempty"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
}

type SaveItineraryRequest struct {
	Name          string         `json:"name"`
	Cities        []string       `json:"cities"`
	DepartureDate string         `json:"departure_date"`
	Notes         string         `json:"notes"`
	Cheapest      *SavedRouteDTO `json:"cheapest_route"`
	Fastest       *SavedRouteDTO `json:"fastest_route"`
}

type ItineraryResponse struct {
	Name          string         `json:"name"`
	SavedAt       time.Time      `json:"saved_at"`
	Cities        []string       `json:"cities"`
	DepartureDate string         `json:"departure_date"`
	Notes         string         `json:"notes,omitempty"`
	Cheapest      *SavedRouteDTO `json:"cheapest_route,omitempty"`
	Fastest       *SavedRouteDTO `json:"fastest_route,omitempty"`
}

type ListItinerariesResponse struct {
	Itineraries []string `json:"itineraries"`
}

func savedRouteFromDomain(r *domain.SavedRoute) *SavedRouteDTO {
	if r == nil {
		return nil
	}
	return &SavedRouteDTO{
		Sequence:             r.Sequence,
		TotalPrice:           PriceFromDomain(r.TotalPrice),
		TotalDurationMinutes: r.TotalDurationMinutes,
	}
}

func (d *SavedRouteDTO) ToDomain() *domain.SavedRoute {
	if d == nil {
		return nil
	}
	return &domain.SavedRoute{
		Sequence:             d.Sequence,
		TotalPrice:           d.TotalPrice.ToDomain(),
		TotalDurationMinutes: d.TotalDurationMinutes,
	}
}

func ItineraryResponseFromDomain(it *domain.Itinerary) ItineraryResponse {
	return ItineraryResponse{
		Name:          it.Name,
		SavedAt:       it.SavedAt,
		Cities:        it.Cities,
		DepartureDate: it.DepartureDate,
		Notes:         it.Notes,
		Cheapest:      savedRouteFromDomain(it.Cheapest),
		Fastest:       savedRouteFromDomain(it.Fastest),
	}
}
