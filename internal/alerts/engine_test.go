package alerts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/alerts"
	"github.com/skycast/skycast/internal/weather"
)

func snapshotWith(temp float64, condition string, windKMH float64, aqi int, uvi float64) *weather.Snapshot {
	return &weather.Snapshot{
		Current: weather.Current{
			Temp:       temp,
			WindSpeed:  windKMH,
			UVIndex:    uvi,
			Conditions: []weather.Condition{{Main: condition}},
			AirQuality: weather.AirQuality{AQI: aqi},
		},
	}
}

func newEngine(now time.Time) *alerts.Engine {
	return alerts.NewEngine(alerts.EngineConfig{
		Now: func() time.Time { return now },
	})
}

func alertTypes(fired []alerts.Alert) []string {
	types := make([]string, 0, len(fired))
	for _, a := range fired {
		types = append(types, a.Type)
	}
	return types
}

func TestEngine_ExtremeHeat(t *testing.T) {
	now := time.Unix(1700000000, 0)
	engine := newEngine(now)

	fired := engine.Derive(snapshotWith(36, "Clear", 5, 2, 3))

	require.Len(t, fired, 1)
	assert.Equal(t, alerts.TypeExtremeHeat, fired[0].Type)
	assert.Equal(t, alerts.SeveritySevere, fired[0].Severity)
	assert.Equal(t, now.Unix(), fired[0].StartTime)
	assert.Equal(t, now.Unix()+3*3600, fired[0].EndTime)
}

func TestEngine_ExtremeHeat_Boundary(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	assert.Contains(t, alertTypes(engine.Derive(snapshotWith(35, "Clear", 5, 2, 3))), alerts.TypeExtremeHeat)
	assert.Empty(t, engine.Derive(snapshotWith(34.9, "Clear", 5, 2, 3)))
}

func TestEngine_ExtremeCold(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	fired := engine.Derive(snapshotWith(0, "Snow", 5, 2, 1))
	require.Len(t, fired, 1)
	assert.Equal(t, alerts.TypeExtremeCold, fired[0].Type)

	assert.Empty(t, engine.Derive(snapshotWith(0.1, "Clear", 5, 2, 1)))
}

func TestEngine_Thunderstorm(t *testing.T) {
	now := time.Unix(1700000000, 0)
	engine := newEngine(now)

	// Moderate temp, fine air, low UV: only the storm rule fires.
	fired := engine.Derive(snapshotWith(20, "Thunderstorm", 25, 2, 3))

	require.Len(t, fired, 1)
	assert.Equal(t, alerts.TypeThunderstorm, fired[0].Type)
	assert.Equal(t, alerts.SeveritySevere, fired[0].Severity)
	assert.Equal(t, now.Unix()+2*3600, fired[0].EndTime)
}

func TestEngine_StrongWindAndRain(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	fired := engine.Derive(snapshotWith(15, "Rain", 25, 2, 3))
	require.Len(t, fired, 1)
	assert.Equal(t, alerts.TypeStrongWindRain, fired[0].Type)
	assert.Equal(t, alerts.SeverityModerate, fired[0].Severity)

	// Rain without enough wind fires nothing.
	assert.Empty(t, engine.Derive(snapshotWith(15, "Rain", 20, 2, 3)))
}

func TestEngine_ColdAndPoorAirQualityCoOccur(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	fired := engine.Derive(snapshotWith(-5, "Snow", 5, 5, 1))

	types := alertTypes(fired)
	require.Len(t, fired, 2)
	assert.Contains(t, types, alerts.TypeExtremeCold)
	assert.Contains(t, types, alerts.TypePoorAirQuality)
}

func TestEngine_PoorAirQuality_Boundary(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	assert.Contains(t, alertTypes(engine.Derive(snapshotWith(20, "Clear", 5, 4, 1))), alerts.TypePoorAirQuality)
	assert.Empty(t, engine.Derive(snapshotWith(20, "Clear", 5, 3, 1)))
}

func TestEngine_UnknownAQIDoesNotFire(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	fired := engine.Derive(snapshotWith(20, "Clear", 5, weather.AQIUnknown, 1))
	assert.Empty(t, fired)
}

func TestEngine_HighUV(t *testing.T) {
	now := time.Unix(1700000000, 0)
	engine := newEngine(now)

	fired := engine.Derive(snapshotWith(25, "Clear", 5, 2, 8))
	require.Len(t, fired, 1)
	assert.Equal(t, alerts.TypeHighUVIndex, fired[0].Type)
	assert.Equal(t, now.Unix()+6*3600, fired[0].EndTime)
}

func TestEngine_DeterministicExceptID(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))
	snap := snapshotWith(36, "Thunderstorm", 25, 5, 9)

	first := engine.Derive(snap)
	second := engine.Derive(snap)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Severity, second[i].Severity)
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].StartTime, second[i].StartTime)
		assert.Equal(t, first[i].EndTime, second[i].EndTime)
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}

func TestEngine_IDPrefixedByType(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))

	fired := engine.Derive(snapshotWith(36, "Clear", 5, 2, 1))
	require.Len(t, fired, 1)
	assert.Regexp(t, `^heat-[0-9a-f]{8}$`, fired[0].ID)
}

func TestEngine_NilSnapshot(t *testing.T) {
	engine := newEngine(time.Unix(1700000000, 0))
	assert.Nil(t, engine.Derive(nil))
}

type captureNotifier struct {
	notified []alerts.Alert
}

func (c *captureNotifier) Notify(a alerts.Alert) {
	c.notified = append(c.notified, a)
}

func TestEngine_NotifiesHighestPriority(t *testing.T) {
	notifier := &captureNotifier{}
	engine := alerts.NewEngine(alerts.EngineConfig{
		Notifier:             notifier,
		NotificationsEnabled: true,
		Now:                  func() time.Time { return time.Unix(1700000000, 0) },
	})

	// Poor air quality (moderate) fires before the severe storm in rule
	// order only if temp rules fire first; the severe alert must win.
	engine.Derive(snapshotWith(20, "Thunderstorm", 5, 5, 1))

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, alerts.TypeThunderstorm, notifier.notified[0].Type)
}

func TestEngine_NotificationsDisabled(t *testing.T) {
	notifier := &captureNotifier{}
	engine := alerts.NewEngine(alerts.EngineConfig{
		Notifier:             notifier,
		NotificationsEnabled: false,
		Now:                  func() time.Time { return time.Unix(1700000000, 0) },
	})

	engine.Derive(snapshotWith(36, "Clear", 5, 2, 1))
	assert.Empty(t, notifier.notified)
}
