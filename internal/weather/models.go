// Package weather aggregates current conditions, forecast, and air quality
// readings into a single normalized snapshot for one location.
package weather

import (
	"errors"
	"fmt"
	"time"
)

// Weather errors.
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// fallbackMessage is surfaced when the upstream gives no specific error.
const fallbackMessage = "Failed to fetch weather data"

// AggregationError indicates that one of the three upstream calls behind a
// snapshot fetch failed. Message carries the most specific upstream message
// available.
type AggregationError struct {
	Message string
	Err     error
}

func (e *AggregationError) Error() string { return e.Message }

func (e *AggregationError) Unwrap() error { return e.Err }

// UpstreamError is a non-OK response from the weather upstream, carrying the
// message from its error payload when one was present.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Condition is a weather condition as reported by the upstream. Icon is the
// upstream icon code used to build CDN image URLs at render time.
type Condition struct {
	Main        string
	Description string
	Icon        string
}

// Components holds raw pollutant concentrations in µg/m³.
type Components struct {
	CO   float64
	NO   float64
	NO2  float64
	O3   float64
	SO2  float64
	PM25 float64
	PM10 float64
	NH3  float64
}

// AQIUnknown marks an air quality reading the upstream did not provide.
// Distinct from category 1 ("Good") so a missing reading is never mistaken
// for a genuinely good one.
const AQIUnknown = 0

// AirQuality is an air quality index reading, category 1 (Good) to
// 5 (Very Poor), plus the raw pollutant components behind it.
type AirQuality struct {
	AQI        int
	Components Components
}

// Known returns whether the upstream provided an actual reading.
func (a AirQuality) Known() bool { return a.AQI != AQIUnknown }

// Observation is the raw current-conditions reading from the upstream,
// before snapshot normalization. Visibility is in meters as delivered.
type Observation struct {
	Temp          float64
	FeelsLike     float64
	Humidity      float64
	WindSpeed     float64
	WindDirection float64
	Pressure      float64
	VisibilityM   float64
	Sunrise       int64 // epoch seconds, 0 when the upstream omits it
	Sunset        int64
	Conditions    []Condition
}

// ForecastEntry is one 3-hour slot of the upstream forecast list.
type ForecastEntry struct {
	Dt         int64
	Temp       float64
	TempMin    float64
	TempMax    float64
	Pop        float64 // precipitation probability 0-1
	Conditions []Condition
}

// Current is the normalized present-moment slice of a snapshot.
// All values are metric: Celsius, km/h wind, km visibility, hPa pressure.
type Current struct {
	Temp          float64
	FeelsLike     float64
	Humidity      float64
	WindSpeed     float64
	WindDirection float64
	Pressure      float64
	VisibilityKM  float64
	Sunrise       int64
	Sunset        int64
	UVIndex       float64
	Conditions    []Condition
	AirQuality    AirQuality
}

// PrimaryCondition returns the leading condition, or a zero Condition when
// the upstream reported none.
func (c Current) PrimaryCondition() Condition {
	if len(c.Conditions) == 0 {
		return Condition{}
	}
	return c.Conditions[0]
}

// DailyTemp holds the day/min/max temperatures for a daily entry.
type DailyTemp struct {
	Day float64
	Min float64
	Max float64
}

// DailyEntry is one sampled day of the forecast. Precipitation is a
// probability expressed as a percentage (0-100).
type DailyEntry struct {
	Dt            int64
	Temp          DailyTemp
	Conditions    []Condition
	Precipitation float64
}

// HourlyEntry is one native-resolution (3-hour) forecast slot.
type HourlyEntry struct {
	Dt         int64
	Temp       float64
	Conditions []Condition
}

// Snapshot is one complete normalized weather result for a single location
// and fetch instant. It is only ever constructed fully populated and is
// immutable afterwards; a new fetch replaces it wholesale.
type Snapshot struct {
	Lat       float64
	Lon       float64
	Current   Current
	Daily     []DailyEntry
	Hourly    []HourlyEntry
	FetchedAt time.Time
}
