package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
	"github.com/luizlzg/mcp-agent-transport/internal/platform/obs"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
)

// commonIATACodes covers the major European cities so a failing location
// lookup does not sink the whole search.
var commonIATACodes = map[string]string{
	"PARIS": "PAR", "LONDON": "LON", "BERLIN": "BER",
	"MADRID": "MAD", "ROME": "ROM", "DUBLIN": "DUB",
	"AMSTERDAM": "AMS", "BARCELONA": "BCN", "MUNICH": "MUC",
	"VIENNA": "VIE", "PRAGUE": "PRG", "BUDAPEST": "BUD",
	"LISBON": "LIS", "BRUSSELS": "BRU", "COPENHAGEN": "CPH",
	"STOCKHOLM": "STO", "OSLO": "OSL", "ATHENS": "ATH",
}

// AmadeusProvider searches flights through the Amadeus self-service API.
//
// It coordinates:
//   - OAuth2 client-credentials token management with expiry-aware refresh
//   - City name to IATA code resolution with an in-memory cache
//   - Flight offer search with retry/backoff
//
// The provider is safe for concurrent use.
type AmadeusProvider struct {
	restClient
	apiKey    string
	apiSecret string
	baseURL   string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	iataCache   map[string]string // upper-cased city -> code; "" = known miss
}

func NewAmadeusProvider(apiKey, apiSecret string) (*AmadeusProvider, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("amadeus: api key and secret are required")
	}

	return &AmadeusProvider{
		restClient: newRestClient(10 * time.Second),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    "https://test.api.amadeus.com",
		iataCache:  make(map[string]string),
	}, nil
}

func (p *AmadeusProvider) Mode() domain.TransportMode { return domain.ModeFlight }

type amadeusTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// bearerToken returns a valid access token, refreshing it when it is within
// 30 seconds of expiry.
func (p *AmadeusProvider) bearerToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Until(p.tokenExpiry) > 30*time.Second {
		return p.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.apiKey)
	form.Set("client_secret", p.apiSecret)
	body := form.Encode()

	endpoint := p.baseURL + "/v1/security/oauth2/token"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("amadeus token request: %w", err)
	}
	defer resp.Body.Close()

	var decoded amadeusTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode amadeus token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", errors.New("amadeus token response contained no access token")
	}

	p.token = decoded.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second)
	return p.token, nil
}

func (p *AmadeusProvider) newAuthedRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	token, err := p.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

type amadeusLocationsResponse struct {
	Data []struct {
		SubType  string `json:"subType"`
		IataCode string `json:"iataCode"`
	} `json:"data"`
}

// resolveCity turns a city name into an IATA code. Three-letter inputs pass
// through unchanged; lookups are cached, including misses, and fall back to
// the common-code table when the reference-data endpoint fails.
func (p *AmadeusProvider) resolveCity(ctx context.Context, city string) (string, error) {
	if len(city) == 3 {
		return strings.ToUpper(city), nil
	}

	cacheKey := strings.ToUpper(city)

	p.mu.Lock()
	code, cached := p.iataCache[cacheKey]
	p.mu.Unlock()
	if cached {
		if code == "" {
			return "", fmt.Errorf("amadeus: no IATA code known for %q", city)
		}
		return code, nil
	}

	code, err := p.lookupLocation(ctx, city)
	if err != nil {
		if fallback, ok := commonIATACodes[cacheKey]; ok {
			log.Printf("amadeus location lookup failed for %q, using common code %s: %v", city, fallback, err)
			code = fallback
		} else {
			// Do not cache transport failures; the next search may succeed.
			return "", fmt.Errorf("amadeus: resolve IATA code for %q: %w", city, err)
		}
	}

	p.mu.Lock()
	p.iataCache[cacheKey] = code
	p.mu.Unlock()

	if code == "" {
		return "", fmt.Errorf("amadeus: no IATA code known for %q", city)
	}
	return code, nil
}

func (p *AmadeusProvider) lookupLocation(ctx context.Context, city string) (string, error) {
	endpoint := p.baseURL + "/v1/reference-data/locations"

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newAuthedRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("keyword", city)
		q.Set("subType", "CITY,AIRPORT")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded amadeusLocationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode locations response: %w", err)
	}

	// Prefer CITY entries; an airport code is still usable.
	for _, loc := range decoded.Data {
		if loc.SubType == "CITY" && loc.IataCode != "" {
			return loc.IataCode, nil
		}
	}
	for _, loc := range decoded.Data {
		if loc.IataCode != "" {
			return loc.IataCode, nil
		}
	}

	return "", nil
}

type amadeusOffersResponse struct {
	Data []struct {
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Departure   struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"data"`
}

// Search queries the flight-offers endpoint for one leg.
func (p *AmadeusProvider) Search(ctx context.Context, q ports.SearchQuery) (_ []domain.TransportOption, err error) {
	defer obs.Time(ctx, "amadeus.Search")(&err)

	originCode, err := p.resolveCity(ctx, q.Origin)
	if err != nil {
		return nil, err
	}
	destinationCode, err := p.resolveCity(ctx, q.Destination)
	if err != nil {
		return nil, err
	}

	endpoint := p.baseURL + "/v2/shopping/flight-offers"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newAuthedRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		params := req.URL.Query()
		params.Set("originLocationCode", originCode)
		params.Set("destinationLocationCode", destinationCode)
		params.Set("departureDate", q.Date)
		params.Set("adults", strconv.Itoa(max(q.Adults, 1)))
		params.Set("max", strconv.Itoa(max(q.MaxResults, 1)))
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("amadeus flight search %s -> %s: %w", originCode, destinationCode, err)
	}
	defer resp.Body.Close()

	var decoded amadeusOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode flight offers response: %w", err)
	}

	options := make([]domain.TransportOption, 0, len(decoded.Data))
	for _, offer := range decoded.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		itinerary := offer.Itineraries[0]
		segments := itinerary.Segments
		first, last := segments[0], segments[len(segments)-1]

		opt := domain.TransportOption{
			Mode:        domain.ModeFlight,
			Provider:    "Amadeus",
			Origin:      first.Departure.IataCode,
			Destination: last.Arrival.IataCode,
			Stops:       len(segments) - 1,
			Departure:   parseLocalTime(first.Departure.At),
			Arrival:     parseLocalTime(last.Arrival.At),
		}

		if minutes, err := parseISODuration(itinerary.Duration); err == nil {
			opt.DurationMinutes = minutes
		} else {
			log.Printf("amadeus offer with unusable duration %q skipped for pricing comparisons", itinerary.Duration)
		}

		if amount, err := strconv.ParseFloat(offer.Price.Total, 64); err == nil {
			opt.Price = &domain.Price{Amount: amount, Currency: offer.Price.Currency}
		}

		carriers := map[string]struct{}{}
		for _, seg := range segments {
			carriers[seg.CarrierCode] = struct{}{}
		}
		for c := range carriers {
			opt.Carriers = append(opt.Carriers, c)
		}
		sort.Strings(opt.Carriers)

		options = append(options, opt)
	}

	return options, nil
}

// parseLocalTime parses the airline-local timestamps Amadeus returns
// ("2026-11-15T10:30:00"). Unparseable values become the zero time.
func parseLocalTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
