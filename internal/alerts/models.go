// Package alerts derives transient weather alerts from the latest snapshot.
package alerts

// Severity ranks how serious an alert is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// rank orders severities for picking the highest-priority alert.
func (s Severity) rank() int {
	switch s {
	case SeveritySevere:
		return 2
	case SeverityModerate:
		return 1
	default:
		return 0
	}
}

// Alert is a transient notification derived from a weather snapshot. Alerts
// are never persisted; every evaluation pass replaces the previous set.
type Alert struct {
	ID          string
	Type        string
	Severity    Severity
	Description string
	StartTime   int64 // epoch seconds
	EndTime     int64
}

// Alert type names.
const (
	TypeExtremeHeat    = "Extreme Heat"
	TypeExtremeCold    = "Extreme Cold"
	TypeThunderstorm   = "Thunderstorm Warning"
	TypeStrongWindRain = "Strong Wind and Rain"
	TypePoorAirQuality = "Poor Air Quality"
	TypeHighUVIndex    = "High UV Index"
)
