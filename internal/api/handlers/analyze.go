package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/luizlzg/mcp-agent-transport/internal/api/dto"
	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/services"
)

// Analyze recommends the cheapest and fastest option among the submitted
// options for a single leg.
func Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AnalyzeRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	options := make([]domain.TransportOption, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, o.ToDomain())
	}

	analysis, err := services.CompareOptions(options)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("option analysis failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AnalyzeResponseFromDomain(analysis))
}
