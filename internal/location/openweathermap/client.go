// Package openweathermap provides the OpenWeatherMap geocoding client for
// forward and reverse location lookup.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/location"
	"github.com/skycast/skycast/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "openweathermap-geo"

	// DefaultBaseURL is the OpenWeatherMap geocoding API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/geo/1.0"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the geocoding client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap geocoding API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("openweathermap-geo"))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search performs forward geocoding for a free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]location.Location, error) {
	reqURL := fmt.Sprintf("%s/direct?q=%s&limit=%d&appid=%s",
		c.baseURL, url.QueryEscape(query), limit, c.apiKey)
	return c.lookup(ctx, reqURL)
}

// Reverse performs reverse geocoding for a coordinate pair.
func (c *Client) Reverse(ctx context.Context, lat, lon float64, limit int) ([]location.Location, error) {
	reqURL := fmt.Sprintf("%s/reverse?lat=%.6f&lon=%.6f&limit=%d&appid=%s",
		c.baseURL, lat, lon, limit, c.apiKey)
	return c.lookup(ctx, reqURL)
}

// lookup executes a geocoding request and converts the candidate list.
func (c *Client) lookup(ctx context.Context, reqURL string) ([]location.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, &location.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    errBody.Message,
		}
	}

	var candidates []geoCandidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	locations := make([]location.Location, 0, len(candidates))
	for _, cand := range candidates {
		locations = append(locations, location.Location{
			Name:    cand.Name,
			State:   cand.State,
			Country: cand.Country,
			Lat:     cand.Lat,
			Lon:     cand.Lon,
		})
	}

	return locations, nil
}

// OpenWeatherMap geocoding API response structures.

type geoCandidate struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

type errorResponse struct {
	Message string `json:"message"`
}
