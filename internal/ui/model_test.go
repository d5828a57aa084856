package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/alerts"
	"github.com/skycast/skycast/internal/location"
	"github.com/skycast/skycast/internal/prefs"
	"github.com/skycast/skycast/internal/session"
	"github.com/skycast/skycast/internal/weather"
)

type fakeProvider struct{}

func (fakeProvider) CurrentConditions(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	return &weather.Observation{Temp: 20, Conditions: []weather.Condition{{Main: "Clear"}}}, nil
}

func (fakeProvider) Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastEntry, error) {
	return []weather.ForecastEntry{{Dt: 1700000000, Temp: 18}}, nil
}

func (fakeProvider) AirPollution(ctx context.Context, lat, lon float64) (weather.AirQuality, error) {
	return weather.AirQuality{AQI: 1}, nil
}

func (fakeProvider) Name() string { return "fake" }

type fakeGeocoder struct {
	results []location.Location
}

func (f *fakeGeocoder) Search(ctx context.Context, query string, limit int) ([]location.Location, error) {
	return f.results, nil
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64, limit int) ([]location.Location, error) {
	return f.results, nil
}

func (f *fakeGeocoder) Name() string { return "fake-geo" }

func newTestModel(t *testing.T) Model {
	t.Helper()

	sess, err := session.New(session.Config{
		Aggregator: weather.NewAggregator(weather.AggregatorConfig{Provider: fakeProvider{}}),
		Engine:     alerts.NewEngine(alerts.EngineConfig{}),
		Store:      prefs.NewStore(prefs.StoreConfig{Dir: t.TempDir()}),
	})
	require.NoError(t, err)

	resolver := location.NewResolver(location.ResolverConfig{
		Geocoder: &fakeGeocoder{results: []location.Location{
			{Name: "Amsterdam", Country: "NL", Lat: 52.37, Lon: 4.895},
		}},
	})

	return NewModel(Config{
		Session:        sess,
		Resolver:       resolver,
		Locator:        location.StaticLocator{Lat: 52.37, Lon: 4.895, Configured: true},
		DebounceWindow: 400 * time.Millisecond,
		FetchTimeout:   time.Second,
	})
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, StateSearch, m.state)
	assert.True(t, m.searchInput.Focused())
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestModel_TypingArmsDebounce(t *testing.T) {
	m := newTestModel(t)

	seqBefore := m.searchSeq
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)

	assert.Equal(t, seqBefore+1, m.searchSeq)
	assert.NotNil(t, cmd, "typing should arm the debounce timer")
	assert.False(t, m.searching)
}

func TestModel_StaleDebounceIgnored(t *testing.T) {
	m := typeRunes(newTestModel(t), "amster")

	// A tick armed before the last keystroke must not fire a search.
	updated, cmd := m.Update(debounceMsg{seq: m.searchSeq - 1})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.searching)
}

func TestModel_CurrentDebounceFires(t *testing.T) {
	m := typeRunes(newTestModel(t), "amster")

	updated, cmd := m.Update(debounceMsg{seq: m.searchSeq})
	m = updated.(Model)

	require.NotNil(t, cmd, "current debounce tick should fire the search")
	assert.True(t, m.searching)
	assert.Equal(t, "amster", m.query)
}

func TestModel_DebounceWithBlankInput(t *testing.T) {
	m := typeRunes(newTestModel(t), "   ")

	updated, cmd := m.Update(debounceMsg{seq: m.searchSeq})
	m = updated.(Model)

	assert.Nil(t, cmd, "whitespace-only input should not search")
	assert.False(t, m.searching)
}

func TestModel_EnterBypassesDebounce(t *testing.T) {
	m := typeRunes(newTestModel(t), "tokyo")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, m.searching)
	assert.Equal(t, "tokyo", m.query)
}

func TestModel_EnterWithEmptyInput(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, StateSearch, m.state)
}

func TestModel_SearchResults(t *testing.T) {
	m := typeRunes(newTestModel(t), "amsterdam")
	m.query = "amsterdam"
	m.searching = true

	updated, _ := m.Update(searchResultsMsg{
		query:   "amsterdam",
		results: []location.Location{{Name: "Amsterdam", Lat: 52.37, Lon: 4.895}},
	})
	m = updated.(Model)

	assert.Equal(t, StateResults, m.state)
	assert.False(t, m.searching)
	assert.Len(t, m.results, 1)
}

func TestModel_StaleSearchResultsDropped(t *testing.T) {
	m := typeRunes(newTestModel(t), "tokyo")
	m.query = "tokyo"

	updated, _ := m.Update(searchResultsMsg{
		query:   "amsterdam",
		results: []location.Location{{Name: "Amsterdam"}},
	})
	m = updated.(Model)

	assert.Equal(t, StateSearch, m.state, "results for a superseded query must be dropped")
	assert.Empty(t, m.results)
}

func TestModel_EmptySearchResults(t *testing.T) {
	m := newTestModel(t)
	m.query = "xyzzy"

	updated, _ := m.Update(searchResultsMsg{query: "xyzzy"})
	m = updated.(Model)

	assert.Equal(t, StateSearch, m.state)
	require.Error(t, m.err)
	assert.Contains(t, m.err.Error(), "xyzzy")
}

func TestModel_SearchErrorShown(t *testing.T) {
	m := newTestModel(t)
	m.query = "tokyo"

	updated, _ := m.Update(searchResultsMsg{
		query: "tokyo",
		err:   &location.LookupError{},
	})
	m = updated.(Model)

	require.Error(t, m.err)
	assert.Equal(t, "Failed to search location", m.err.Error())
}

func TestModel_RefreshErrorWithoutDataIsFatal(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(refreshedMsg{err: &weather.AggregationError{Message: "Failed to fetch weather data"}})
	m = updated.(Model)

	assert.Equal(t, StateError, m.state)
	require.Error(t, m.err)
}

func TestModel_GeolocationFailureFallsBack(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(locatedMsg{err: &location.GeolocationError{Reason: location.ReasonPermissionDenied}})
	m = updated.(Model)

	require.NotNil(t, cmd, "fallback to the default location should start a fetch")
	assert.Contains(t, m.statusLine, "permission denied")
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestModel_View_States(t *testing.T) {
	tests := []struct {
		name  string
		state AppState
	}{
		{"search", StateSearch},
		{"loading", StateLoading},
		{"settings", StateSettings},
		{"error", StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.state = tt.state
			m.width = 100
			m.height = 30

			assert.NotEmpty(t, m.View())
		})
	}
}

func TestModel_View_BeforeWindowSize(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_SettingsToggles(t *testing.T) {
	m := newTestModel(t)
	m.state = StateSettings

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = updated.(Model)
	assert.False(t, m.prefs.Dashboard.ShowHourlyForecast)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = updated.(Model)
	assert.True(t, m.prefs.Dashboard.ShowHourlyForecast)
}

func TestModel_UnitToggle(t *testing.T) {
	m := newTestModel(t)
	m.state = StateSettings

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	m = updated.(Model)
	assert.Equal(t, prefs.UnitFahrenheit, m.prefs.TemperatureUnit)

	// Persisted through the session, not just the model copy.
	assert.Equal(t, prefs.UnitFahrenheit, m.sess.Preferences().TemperatureUnit)
}

func TestModel_ThemeToggleRebuildsStyles(t *testing.T) {
	m := newTestModel(t)
	m.state = StateSettings
	require.Equal(t, prefs.ThemeLight, m.prefs.Theme)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = updated.(Model)
	assert.Equal(t, prefs.ThemeDark, m.prefs.Theme)
}

func TestSavedIndex(t *testing.T) {
	assert.Equal(t, 0, savedIndex("1"))
	assert.Equal(t, 8, savedIndex("9"))
	assert.Equal(t, -1, savedIndex("0"))
	assert.Equal(t, -1, savedIndex("a"))
	assert.Equal(t, -1, savedIndex("10"))
}
