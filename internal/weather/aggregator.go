package weather

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Provider delivers the three upstream resources behind a snapshot.
type Provider interface {
	// CurrentConditions fetches the present-moment observation.
	CurrentConditions(ctx context.Context, lat, lon float64) (*Observation, error)

	// Forecast fetches the 3-hour-resolution, ~5-day forecast list.
	Forecast(ctx context.Context, lat, lon float64) ([]ForecastEntry, error)

	// AirPollution fetches the latest air quality reading.
	AirPollution(ctx context.Context, lat, lon float64) (AirQuality, error)

	// Name returns the provider name for logging.
	Name() string
}

// AggregatorConfig holds configuration for the aggregator.
type AggregatorConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for aggregation operations.
	Logger zerolog.Logger

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Aggregator fetches the three upstream resources concurrently and merges
// them into one Snapshot. Each FetchSnapshot call is independent and
// reentrant; no state is shared between calls.
type Aggregator struct {
	provider Provider
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAggregator creates a new aggregator.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Aggregator{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		now:      now,
	}
}

// hourlyWindow is how many native forecast slots the hourly slice keeps.
const hourlyWindow = 24

// dailyStride samples one forecast entry per day from the 3-hour list
// (8 slots per 24 hours). The list is not re-bucketed to calendar days; the
// day boundary is whatever the upstream ordering implies.
const dailyStride = 8

// FetchSnapshot issues the three upstream calls concurrently and merges the
// results. If any call fails the whole fetch fails with *AggregationError
// and no partial snapshot is produced.
func (a *Aggregator) FetchSnapshot(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	a.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", a.provider.Name()).
		Msg("fetching weather snapshot")

	var (
		obs      *Observation
		forecast []ForecastEntry
		air      AirQuality
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		obs, err = a.provider.CurrentConditions(gctx, lat, lon)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = a.provider.Forecast(gctx, lat, lon)
		return err
	})
	g.Go(func() error {
		var err error
		air, err = a.provider.AirPollution(gctx, lat, lon)
		return err
	})

	if err := g.Wait(); err != nil {
		a.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("snapshot fetch failed")
		return nil, &AggregationError{Message: upstreamMessage(err), Err: err}
	}

	return a.merge(lat, lon, obs, forecast, air), nil
}

// merge applies the normalization rules and assembles the snapshot.
func (a *Aggregator) merge(lat, lon float64, obs *Observation, forecast []ForecastEntry, air AirQuality) *Snapshot {
	now := a.now()

	sunrise := obs.Sunrise
	if sunrise == 0 {
		sunrise = now.Unix()
	}
	sunset := obs.Sunset
	if sunset == 0 {
		sunset = now.Unix() + 12*3600
	}

	current := Current{
		Temp:          obs.Temp,
		FeelsLike:     obs.FeelsLike,
		Humidity:      obs.Humidity,
		WindSpeed:     obs.WindSpeed,
		WindDirection: obs.WindDirection,
		Pressure:      obs.Pressure,
		VisibilityKM:  obs.VisibilityM / 1000,
		Sunrise:       sunrise,
		Sunset:        sunset,
		UVIndex:       0, // not available on this upstream tier
		Conditions:    obs.Conditions,
		AirQuality:    air,
	}

	daily := make([]DailyEntry, 0, (len(forecast)+dailyStride-1)/dailyStride)
	for i := 0; i < len(forecast); i += dailyStride {
		entry := forecast[i]
		daily = append(daily, DailyEntry{
			Dt: entry.Dt,
			Temp: DailyTemp{
				Day: entry.Temp,
				Min: entry.TempMin,
				Max: entry.TempMax,
			},
			Conditions:    entry.Conditions,
			Precipitation: entry.Pop * 100,
		})
	}

	n := len(forecast)
	if n > hourlyWindow {
		n = hourlyWindow
	}
	hourly := make([]HourlyEntry, 0, n)
	for _, entry := range forecast[:n] {
		hourly = append(hourly, HourlyEntry{
			Dt:         entry.Dt,
			Temp:       entry.Temp,
			Conditions: entry.Conditions,
		})
	}

	return &Snapshot{
		Lat:       lat,
		Lon:       lon,
		Current:   current,
		Daily:     daily,
		Hourly:    hourly,
		FetchedAt: now,
	}
}

// upstreamMessage extracts the most specific upstream message from an error
// chain, falling back to a generic message.
func upstreamMessage(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}
	return fallbackMessage
}

// validateCoordinates checks if coordinates are valid.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
