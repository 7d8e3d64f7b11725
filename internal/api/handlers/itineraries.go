package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/api/dto"
	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

type ItineraryHandler struct {
	Repo ports.ItineraryRepository

	// Now is swapped in tests; defaults to time.Now.
	Now func() time.Time
}

func (h *ItineraryHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Collection serves GET (list names) and POST (save) on /itineraries.
func (h *ItineraryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ByName serves GET /itineraries/{name}.
func (h *ItineraryHandler) ByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/itineraries/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, r, http.StatusNotFound, "itinerary not found")
		return
	}

	it, err := h.Repo.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, ports.ErrItineraryNotFound) {
			writeError(w, r, http.StatusNotFound, "itinerary not found")
			return
		}
		log.Printf("get itinerary failed: name=%q err=%v", name, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ItineraryResponseFromDomain(it))
}

func (h *ItineraryHandler) list(w http.ResponseWriter, r *http.Request) {
	names, err := h.Repo.List(r.Context())
	if err != nil {
		log.Printf("list itineraries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListItinerariesResponse{Itineraries: names})
}

func (h *ItineraryHandler) save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveItineraryRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Cities) == 0 {
		writeError(w, r, http.StatusBadRequest, "cities are required")
		return
	}

	it := &domain.Itinerary{
		Name:          req.Name,
		SavedAt:       h.now().UTC(),
		Cities:        req.Cities,
		DepartureDate: req.DepartureDate,
		Notes:         req.Notes,
		Cheapest:      req.Cheapest.ToDomain(),
		Fastest:       req.Fastest.ToDomain(),
	}

	if err := h.Repo.Save(r.Context(), it); err != nil {
		log.Printf("save itinerary failed: name=%q err=%v", req.Name, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ItineraryResponseFromDomain(it))
}
