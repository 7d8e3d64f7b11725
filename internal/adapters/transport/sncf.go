package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/platform/obs"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

const navitiaTimeLayout = "20060102T150405"

// SNCFProvider searches train journeys on the SNCF Navitia API. Navitia
// rarely exposes fares, so most options come back unpriced.
type SNCFProvider struct {
	restClient
	apiKey  string
	baseURL string
}

func NewSNCFProvider(apiKey string) (*SNCFProvider, error) {
	if apiKey == "" {
		return nil, errors.New("sncf: api key is required")
	}

	return &SNCFProvider{
		restClient: newRestClient(10 * time.Second),
		apiKey:     apiKey,
		baseURL:    "https://api.sncf.com/v1/coverage/sncf",
	}, nil
}

func (p *SNCFProvider) Mode() domain.TransportMode { return domain.ModeTrain }

type navitiaJourneysResponse struct {
	Journeys []struct {
		Duration          int    `json:"duration"` // seconds
		NbTransfers       int    `json:"nb_transfers"`
		DepartureDateTime string `json:"departure_date_time"`
		ArrivalDateTime   string `json:"arrival_date_time"`
		Fare              struct {
			Found bool `json:"found"`
			Total struct {
				Value    string `json:"value"`
				Currency string `json:"currency"`
			} `json:"total"`
		} `json:"fare"`
	} `json:"journeys"`
}

// Search queries Navitia journeys departing around midday on the requested
// date, matching the behaviour of a traveller with a flexible schedule.
func (p *SNCFProvider) Search(ctx context.Context, q ports.SearchQuery) (_ []domain.TransportOption, err error) {
	defer obs.Time(ctx, "sncf.Search")(&err)

	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return nil, fmt.Errorf("sncf: parse departure date %q: %w", q.Date, err)
	}
	datetime := date.Format("20060102") + "T120000"

	endpoint := p.baseURL + "/journeys"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", p.apiKey)

		params := req.URL.Query()
		params.Set("from", q.Origin)
		params.Set("to", q.Destination)
		params.Set("datetime", datetime)
		params.Set("count", strconv.Itoa(max(q.MaxResults, 1)))
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sncf journey search %s -> %s: %w", q.Origin, q.Destination, err)
	}
	defer resp.Body.Close()

	var decoded navitiaJourneysResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode journeys response: %w", err)
	}

	options := make([]domain.TransportOption, 0, len(decoded.Journeys))
	for _, j := range decoded.Journeys {
		opt := domain.TransportOption{
			Mode:            domain.ModeTrain,
			Provider:        "SNCF",
			Origin:          q.Origin,
			Destination:     q.Destination,
			DurationMinutes: j.Duration / 60,
			Stops:           j.NbTransfers,
			Carriers:        []string{"SNCF"},
		}

		if t, err := time.Parse(navitiaTimeLayout, j.DepartureDateTime); err == nil {
			opt.Departure = t
		}
		if t, err := time.Parse(navitiaTimeLayout, j.ArrivalDateTime); err == nil {
			opt.Arrival = t
		}

		if j.Fare.Found {
			if amount, err := strconv.ParseFloat(j.Fare.Total.Value, 64); err == nil {
				currency := j.Fare.Total.Currency
				if currency == "" {
					currency = "EUR"
				}
				opt.Price = &domain.Price{Amount: amount, Currency: currency}
			}
		}

		options = append(options, opt)
	}

	return options, nil
}
