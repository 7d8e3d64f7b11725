package api

import (
	"net/http"

	"github.com/luizlzg/mcp-agent-transport/internal/api/handlers"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(search handlers.LegSearchService, itineraries ports.ItineraryRepository) http.Handler {
	mux := http.NewServeMux()

	searchHandler := &handlers.SearchHandler{Search: search}
	optimizeHandler := &handlers.OptimizeHandler{Search: search}
	itineraryHandler := &handlers.ItineraryHandler{Repo: itineraries}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/search", searchHandler.All)
	mux.HandleFunc("/analyze", handlers.Analyze)
	mux.HandleFunc("/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/itineraries", itineraryHandler.Collection)
	mux.HandleFunc("/itineraries/", itineraryHandler.ByName)

	return loggingMiddleware(mux)
}
