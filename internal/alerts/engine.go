package alerts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/weather"
)

// Rule thresholds.
const (
	heatThreshold     = 35.0 // °C
	coldThreshold     = 0.0
	windRainThreshold = 20.0 // km/h
	aqiThreshold      = 4
	uvThreshold       = 8.0
)

// Notifier delivers the highest-priority alert to the platform notification
// surface. Implementations must tolerate being called on every evaluation
// pass.
type Notifier interface {
	Notify(alert Alert)
}

// LogNotifier logs alerts instead of raising platform notifications.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(alert Alert) {
	n.Logger.Info().
		Str("type", alert.Type).
		Str("severity", string(alert.Severity)).
		Msg(alert.Description)
}

// EngineConfig holds configuration for the alert engine.
type EngineConfig struct {
	// Notifier receives the highest-priority alert of each pass when
	// notifications are enabled. Optional.
	Notifier Notifier

	// NotificationsEnabled gates the notifier.
	NotificationsEnabled bool

	// Logger for engine operations.
	Logger zerolog.Logger

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Engine evaluates alert rules against a snapshot. Rules are independent;
// all that match fire, except that heat/cold are disjoint by construction
// and a thunderstorm suppresses the wind-and-rain rule.
type Engine struct {
	notifier             Notifier
	notificationsEnabled bool
	logger               zerolog.Logger
	now                  func() time.Time
}

// NewEngine creates a new alert engine.
func NewEngine(cfg EngineConfig) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		notifier:             cfg.Notifier,
		notificationsEnabled: cfg.NotificationsEnabled,
		logger:               cfg.Logger,
		now:                  now,
	}
}

// Derive evaluates all rules against the snapshot and returns the alerts
// that fire, in rule order. Deterministic given a snapshot except for the
// random ID suffix.
func (e *Engine) Derive(snapshot *weather.Snapshot) []Alert {
	if snapshot == nil {
		return nil
	}

	now := e.now().Unix()
	current := snapshot.Current
	var fired []Alert

	if current.Temp >= heatThreshold {
		fired = append(fired, Alert{
			ID:          newID("heat"),
			Type:        TypeExtremeHeat,
			Severity:    SeveritySevere,
			Description: "High temperature alert. Stay hydrated and avoid prolonged sun exposure.",
			StartTime:   now,
			EndTime:     now + 3*3600,
		})
	} else if current.Temp <= coldThreshold {
		fired = append(fired, Alert{
			ID:          newID("cold"),
			Type:        TypeExtremeCold,
			Severity:    SeveritySevere,
			Description: "Freezing temperature alert. Take precautions against cold exposure.",
			StartTime:   now,
			EndTime:     now + 3*3600,
		})
	}

	condition := strings.ToLower(current.PrimaryCondition().Main)
	switch {
	case strings.Contains(condition, "thunderstorm"):
		fired = append(fired, Alert{
			ID:          newID("storm"),
			Type:        TypeThunderstorm,
			Severity:    SeveritySevere,
			Description: "Thunderstorm in your area. Seek shelter and stay indoors.",
			StartTime:   now,
			EndTime:     now + 2*3600,
		})
	case strings.Contains(condition, "rain") && current.WindSpeed > windRainThreshold:
		fired = append(fired, Alert{
			ID:          newID("wind-rain"),
			Type:        TypeStrongWindRain,
			Severity:    SeverityModerate,
			Description: "Strong winds with heavy rain. Exercise caution when outside.",
			StartTime:   now,
			EndTime:     now + 2*3600,
		})
	}

	if current.AirQuality.AQI >= aqiThreshold {
		fired = append(fired, Alert{
			ID:          newID("aqi"),
			Type:        TypePoorAirQuality,
			Severity:    SeverityModerate,
			Description: "Air quality is unhealthy. Sensitive groups should limit outdoor activities.",
			StartTime:   now,
			EndTime:     now + 24*3600,
		})
	}

	if current.UVIndex >= uvThreshold {
		fired = append(fired, Alert{
			ID:          newID("uv"),
			Type:        TypeHighUVIndex,
			Severity:    SeverityModerate,
			Description: "Very high UV levels. Use sun protection and limit sun exposure.",
			StartTime:   now,
			EndTime:     now + 6*3600,
		})
	}

	if len(fired) > 0 {
		e.logger.Debug().Int("count", len(fired)).Msg("alerts derived")
		if e.notificationsEnabled && e.notifier != nil {
			e.notifier.Notify(highestPriority(fired))
		}
	}

	return fired
}

// highestPriority returns the most severe alert, earliest rule winning ties.
func highestPriority(fired []Alert) Alert {
	best := fired[0]
	for _, a := range fired[1:] {
		if a.Severity.rank() > best.Severity.rank() {
			best = a
		}
	}
	return best
}

// newID builds a locally-unique alert ID. Not stable across evaluation
// passes; every pass replaces the previous alert set wholesale.
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
