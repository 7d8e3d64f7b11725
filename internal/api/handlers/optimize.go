package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/api/dto"
	"github.com/luizlzg/mcp-agent-transport/internal/services"
)

type OptimizeHandler struct {
	Search LegSearchService
}

// Optimize evaluates every visiting order of the requested cities, keeping
// the first city fixed, and returns the cheapest and fastest orders.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := services.ValidateDepartureDate(req.DepartureDate, time.Now()); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := services.Optimize(r.Context(), req.Cities, h.Search.ForDate(req.DepartureDate))
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("route order optimization failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponseFromDomain(result))
}
