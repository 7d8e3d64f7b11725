package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

// FSItineraryRepository persists itineraries as pretty-printed JSON files,
// one per itinerary, under a base directory.
type FSItineraryRepository struct {
	baseDir string
}

func NewFSItineraryRepository(baseDir string) (*FSItineraryRepository, error) {
	if baseDir == "" {
		return nil, errors.New("itinerary repository: base directory must not be empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("itinerary repository: create base directory: %w", err)
	}
	return &FSItineraryRepository{baseDir: baseDir}, nil
}

type savedRouteDoc struct {
	Sequence             []string      `json:"sequence"`
	TotalPrice           *domain.Price `json:"total_price,omitempty"`
	TotalDurationMinutes int           `json:"total_duration_minutes"`
}

type itineraryDoc struct {
	Name          string         `json:"name"`
	SavedAt       time.Time      `json:"saved_at"`
	Cities        []string       `json:"cities"`
	DepartureDate string         `json:"departure_date"`
	Notes         string         `json:"notes,omitempty"`
	Cheapest      *savedRouteDoc `json:"cheapest_route,omitempty"`
	Fastest       *savedRouteDoc `json:"fastest_route,omitempty"`
}

// sanitizeName keeps itinerary names usable as file names. Anything outside
// letters, digits, dash and underscore becomes an underscore.
func sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("itinerary name must not be empty")
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String(), nil
}

func (r *FSItineraryRepository) path(name string) (string, error) {
	safe, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.baseDir, safe+".json"), nil
}

func routeToDoc(route *domain.SavedRoute) *savedRouteDoc {
	if route == nil {
		return nil
	}
	return &savedRouteDoc{
		Sequence:             route.Sequence,
		TotalPrice:           route.TotalPrice,
		TotalDurationMinutes: route.TotalDurationMinutes,
	}
}

func docToRoute(doc *savedRouteDoc) *domain.SavedRoute {
	if doc == nil {
		return nil
	}
	return &domain.SavedRoute{
		Sequence:             doc.Sequence,
		TotalPrice:           doc.TotalPrice,
		TotalDurationMinutes: doc.TotalDurationMinutes,
	}
}

// Save writes the itinerary, overwriting any previous version with the
// same name.
func (r *FSItineraryRepository) Save(ctx context.Context, it *domain.Itinerary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if it == nil {
		return errors.New("save itinerary: itinerary is nil")
	}

	p, err := r.path(it.Name)
	if err != nil {
		return fmt.Errorf("save itinerary: %w", err)
	}

	doc := itineraryDoc{
		Name:          it.Name,
		SavedAt:       it.SavedAt,
		Cities:        it.Cities,
		DepartureDate: it.DepartureDate,
		Notes:         it.Notes,
		Cheapest:      routeToDoc(it.Cheapest),
		Fastest:       routeToDoc(it.Fastest),
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("save itinerary %q: encode: %w", it.Name, err)
	}

	if err := os.WriteFile(p, raw, 0o644); err != nil {
		return fmt.Errorf("save itinerary %q: write file: %w", it.Name, err)
	}

	return nil
}

// Get loads one itinerary by name. A missing file maps to
// ports.ErrItineraryNotFound.
func (r *FSItineraryRepository) Get(ctx context.Context, name string) (*domain.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := r.path(name)
	if err != nil {
		return nil, fmt.Errorf("get itinerary: %w", err)
	}

	raw, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ports.ErrItineraryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary %q: read file: %w", name, err)
	}

	var doc itineraryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("get itinerary %q: decode: %w", name, err)
	}

	return &domain.Itinerary{
		Name:          doc.Name,
		SavedAt:       doc.SavedAt,
		Cities:        doc.Cities,
		DepartureDate: doc.DepartureDate,
		Notes:         doc.Notes,
		Cheapest:      docToRoute(doc.Cheapest),
		Fastest:       docToRoute(doc.Fastest),
	}, nil
}

// List returns the stored itinerary names, sorted.
func (r *FSItineraryRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)

	return names, nil
}
