package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/api/dto"
	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
	"github.com/luizlzg/mcp-agent-transport/internal/services"
)

// LegSearchService is the slice of the transport search aggregator the
// handlers depend on.
type LegSearchService interface {
	Search(ctx context.Context, origin, destination, date string) ([]domain.TransportOption, error)
	ForDate(date string) ports.LegSearcher
}

type SearchHandler struct {
	Search LegSearchService
}

// All searches one leg across every configured transport provider.
func (h *SearchHandler) All(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SearchRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := services.ValidateDepartureDate(req.Date, time.Now()); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	options, err := h.Search.Search(r.Context(), req.Origin, req.Destination, req.Date)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("transport search failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SearchResponse{
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.Date,
		Options:     make([]dto.OptionDTO, 0, len(options)),
	}
	for _, o := range options {
		res.Options = append(res.Options, dto.OptionFromDomain(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}
