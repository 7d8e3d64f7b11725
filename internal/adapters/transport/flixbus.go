package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/platform/obs"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

const flixbusHost = "flixbus2.p.rapidapi.com"

// FlixBusProvider searches bus trips through the FlixBus API on RapidAPI.
// Each search is two calls: station lookup for both cities, then the trip
// search between the resolved station IDs.
type FlixBusProvider struct {
	restClient
	apiKey  string
	baseURL string

	mu           sync.Mutex
	stationCache map[string]string // lower-cased city -> station id
}

func NewFlixBusProvider(apiKey string) (*FlixBusProvider, error) {
	if apiKey == "" {
		return nil, errors.New("flixbus: rapidapi key is required")
	}

	return &FlixBusProvider{
		restClient:   newRestClient(10 * time.Second),
		apiKey:       apiKey,
		baseURL:      "https://" + flixbusHost,
		stationCache: make(map[string]string),
	}, nil
}

func (p *FlixBusProvider) Mode() domain.TransportMode { return domain.ModeBus }

func (p *FlixBusProvider) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", flixbusHost)
	return req, nil
}

type flixbusStationsResponse []struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *FlixBusProvider) resolveStation(ctx context.Context, city string) (string, error) {
	cacheKey := strings.ToLower(city)

	p.mu.Lock()
	id, cached := p.stationCache[cacheKey]
	p.mu.Unlock()
	if cached {
		return id, nil
	}

	endpoint := p.baseURL + "/search/stations"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("query", city)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("flixbus station lookup %q: %w", city, err)
	}
	defer resp.Body.Close()

	var decoded flixbusStationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode stations response: %w", err)
	}
	if len(decoded) == 0 || decoded[0].ID == "" {
		return "", fmt.Errorf("flixbus: no station found for %q", city)
	}

	id = decoded[0].ID
	p.mu.Lock()
	p.stationCache[cacheKey] = id
	p.mu.Unlock()

	return id, nil
}

type flixbusTripsResponse struct {
	Trips []struct {
		Departure string `json:"departure"`
		Arrival   string `json:"arrival"`
		Duration  struct {
			Hours   int `json:"hours"`
			Minutes int `json:"minutes"`
		} `json:"duration"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
		TransferCount int `json:"transfer_count"`
	} `json:"trips"`
}

// Search resolves both cities to station IDs and queries trips for the date.
func (p *FlixBusProvider) Search(ctx context.Context, q ports.SearchQuery) (_ []domain.TransportOption, err error) {
	defer obs.Time(ctx, "flixbus.Search")(&err)

	fromID, err := p.resolveStation(ctx, q.Origin)
	if err != nil {
		return nil, err
	}
	toID, err := p.resolveStation(ctx, q.Destination)
	if err != nil {
		return nil, err
	}

	endpoint := p.baseURL + "/search/trips"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		params := req.URL.Query()
		params.Set("from_id", fromID)
		params.Set("to_id", toID)
		params.Set("date", q.Date)
		params.Set("adult", strconv.Itoa(max(q.Adults, 1)))
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("flixbus trip search %s -> %s: %w", q.Origin, q.Destination, err)
	}
	defer resp.Body.Close()

	var decoded flixbusTripsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode trips response: %w", err)
	}

	limit := max(q.MaxResults, 1)
	options := make([]domain.TransportOption, 0, limit)
	for _, trip := range decoded.Trips {
		if len(options) == limit {
			break
		}

		opt := domain.TransportOption{
			Mode:            domain.ModeBus,
			Provider:        "FlixBus",
			Origin:          q.Origin,
			Destination:     q.Destination,
			DurationMinutes: trip.Duration.Hours*60 + trip.Duration.Minutes,
			Stops:           trip.TransferCount,
			Carriers:        []string{"FlixBus"},
		}

		if t, err := time.Parse(time.RFC3339, trip.Departure); err == nil {
			opt.Departure = t
		}
		if t, err := time.Parse(time.RFC3339, trip.Arrival); err == nil {
			opt.Arrival = t
		}

		if amount, err := strconv.ParseFloat(trip.Price.Total, 64); err == nil {
			currency := trip.Price.Currency
			if currency == "" {
				currency = "EUR"
			}
			opt.Price = &domain.Price{Amount: amount, Currency: currency}
		}

		options = append(options, opt)
	}

	return options, nil
}
