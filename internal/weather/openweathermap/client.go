// Package openweathermap provides the OpenWeatherMap client for current
// conditions, the 5-day/3-hour forecast, and air pollution readings.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a circuit-breaking client with defaults.
	HTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("openweathermap"))
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

// CurrentConditions fetches the current weather observation for a location.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	var owmResp currentWeatherResponse
	if err := c.get(ctx, url, &owmResp); err != nil {
		return nil, err
	}

	return toObservation(&owmResp), nil
}

// Forecast fetches the 3-hour-resolution forecast list for a location.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastEntry, error) {
	url := fmt.Sprintf("%s/forecast?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	var owmResp forecastResponse
	if err := c.get(ctx, url, &owmResp); err != nil {
		return nil, err
	}

	entries := make([]weather.ForecastEntry, 0, len(owmResp.List))
	for i := range owmResp.List {
		entries = append(entries, toForecastEntry(&owmResp.List[i]))
	}

	return entries, nil
}

// AirPollution fetches the latest air quality reading for a location.
// A response without readings yields weather.AQIUnknown rather than an error.
func (c *Client) AirPollution(ctx context.Context, lat, lon float64) (weather.AirQuality, error) {
	url := fmt.Sprintf("%s/air_pollution?lat=%.6f&lon=%.6f&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

	var owmResp airPollutionResponse
	if err := c.get(ctx, url, &owmResp); err != nil {
		return weather.AirQuality{}, err
	}

	if len(owmResp.List) == 0 {
		c.logger.Warn().
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("air pollution response had no readings")
		return weather.AirQuality{AQI: weather.AQIUnknown}, nil
	}

	reading := owmResp.List[0]
	return weather.AirQuality{
		AQI: reading.Main.AQI,
		Components: weather.Components{
			CO:   reading.Components.CO,
			NO:   reading.Components.NO,
			NO2:  reading.Components.NO2,
			O3:   reading.Components.O3,
			SO2:  reading.Components.SO2,
			PM25: reading.Components.PM25,
			PM10: reading.Components.PM10,
			NH3:  reading.Components.NH3,
		},
	}, nil
}

// get executes a GET request and decodes the JSON body into out. Non-OK
// responses are decoded into weather.UpstreamError so the caller can surface
// the upstream's own message.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &weather.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    errBody.Message,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// toObservation converts an OpenWeatherMap response to the domain model.
func toObservation(resp *currentWeatherResponse) *weather.Observation {
	obs := &weather.Observation{
		Temp:          resp.Main.Temp,
		FeelsLike:     resp.Main.FeelsLike,
		Humidity:      resp.Main.Humidity,
		WindSpeed:     resp.Wind.Speed,
		WindDirection: resp.Wind.Deg,
		Pressure:      resp.Main.Pressure,
		VisibilityM:   float64(resp.Visibility),
		Conditions:    toConditions(resp.Weather),
	}

	if resp.Sys != nil {
		obs.Sunrise = resp.Sys.Sunrise
		obs.Sunset = resp.Sys.Sunset
	}

	return obs
}

// toForecastEntry converts one forecast list item to the domain model.
func toForecastEntry(item *forecastItem) weather.ForecastEntry {
	return weather.ForecastEntry{
		Dt:         item.Dt,
		Temp:       item.Main.Temp,
		TempMin:    item.Main.TempMin,
		TempMax:    item.Main.TempMax,
		Pop:        item.Pop,
		Conditions: toConditions(item.Weather),
	}
}

func toConditions(conditions []conditionData) []weather.Condition {
	out := make([]weather.Condition, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, weather.Condition{
			Main:        c.Main,
			Description: c.Description,
			Icon:        c.Icon,
		})
	}
	return out
}

// OpenWeatherMap API response structures.

type conditionData struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentWeatherResponse struct {
	Weather []conditionData `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Sys *struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []conditionData `json:"weather"`
	Pop     float64         `json:"pop"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type airPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO   float64 `json:"no"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			SO2  float64 `json:"so2"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
			NH3  float64 `json:"nh3"`
		} `json:"components"`
	} `json:"list"`
}

type errorResponse struct {
	Message string `json:"message"`
}
