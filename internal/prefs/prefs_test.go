package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/location"
	"github.com/skycast/skycast/internal/prefs"
)

func TestDefault(t *testing.T) {
	p := prefs.Default()

	assert.Equal(t, prefs.UnitCelsius, p.TemperatureUnit)
	assert.Equal(t, prefs.ThemeLight, p.Theme)
	assert.Equal(t, "New York", p.DefaultLocation.Name)
	assert.Empty(t, p.SavedLocations)
	assert.True(t, p.Dashboard.ShowCurrentWeather)
	assert.True(t, p.Dashboard.ShowHourlyForecast)
	assert.True(t, p.Dashboard.ShowDailyForecast)
	assert.True(t, p.Dashboard.ShowExtendedInfo)
}

func TestPreferences_Merge(t *testing.T) {
	p := prefs.Default()

	unit := prefs.UnitFahrenheit
	merged := p.Merge(prefs.Update{TemperatureUnit: &unit})

	assert.Equal(t, prefs.UnitFahrenheit, merged.TemperatureUnit)
	// Untouched fields survive the merge.
	assert.Equal(t, prefs.ThemeLight, merged.Theme)
	assert.Equal(t, "New York", merged.DefaultLocation.Name)

	// The original value is unchanged.
	assert.Equal(t, prefs.UnitCelsius, p.TemperatureUnit)
}

func TestPreferences_MergeSeveralFields(t *testing.T) {
	theme := prefs.ThemeDark
	dash := prefs.Dashboard{ShowCurrentWeather: true}
	loc := location.Location{Name: "Amsterdam", Lat: 52.37, Lon: 4.895}

	merged := prefs.Default().Merge(prefs.Update{
		Theme:           &theme,
		Dashboard:       &dash,
		DefaultLocation: &loc,
	})

	assert.Equal(t, prefs.ThemeDark, merged.Theme)
	assert.Equal(t, "Amsterdam", merged.DefaultLocation.Name)
	assert.False(t, merged.Dashboard.ShowHourlyForecast)
	assert.True(t, merged.Dashboard.ShowCurrentWeather)
}

func TestPreferences_WithSavedToggled(t *testing.T) {
	amsterdam := location.Location{Name: "Amsterdam", Lat: 52.37, Lon: 4.895}
	tokyo := location.Location{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503}

	p := prefs.Default().WithSavedToggled(amsterdam)
	require.Len(t, p.SavedLocations, 1)
	assert.True(t, p.IsSaved(amsterdam))

	p = p.WithSavedToggled(tokyo)
	require.Len(t, p.SavedLocations, 2)

	// Toggling the same coordinates removes the entry.
	p = p.WithSavedToggled(amsterdam)
	require.Len(t, p.SavedLocations, 1)
	assert.False(t, p.IsSaved(amsterdam))
	assert.True(t, p.IsSaved(tokyo))
}

func TestPreferences_SaveTwiceKeepsOneEntry(t *testing.T) {
	loc := location.Location{Name: "Amsterdam", Lat: 52.37, Lon: 4.895}
	sameCoords := location.Location{Name: "Amsterdam Centrum", Lat: 52.37, Lon: 4.895}

	// Same coordinate pair toggles rather than duplicating, regardless of name.
	p := prefs.Default().WithSavedToggled(loc).WithSavedToggled(sameCoords)
	p = p.WithSavedToggled(loc)

	require.Len(t, p.SavedLocations, 1)
}

func TestStore_RoundTrip(t *testing.T) {
	store := prefs.NewStore(prefs.StoreConfig{Dir: t.TempDir()})

	unit := prefs.UnitFahrenheit
	theme := prefs.ThemeDark
	p := prefs.Default().Merge(prefs.Update{TemperatureUnit: &unit, Theme: &theme})
	p = p.WithSavedToggled(location.Location{Name: "Amsterdam", Lat: 52.37, Lon: 4.895})

	require.NoError(t, store.SavePreferences(p))

	loaded, err := store.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestStore_FirstRunDefaults(t *testing.T) {
	store := prefs.NewStore(prefs.StoreConfig{Dir: t.TempDir()})

	loaded, err := store.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, prefs.Default(), loaded)
}

func TestStore_CorruptPreferences(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{nope"), 0o644))

	store := prefs.NewStore(prefs.StoreConfig{Dir: dir})
	_, err := store.LoadPreferences()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding preferences")
}

func TestStore_SelectedLocation(t *testing.T) {
	store := prefs.NewStore(prefs.StoreConfig{Dir: t.TempDir()})

	loc, err := store.LoadSelectedLocation()
	require.NoError(t, err)
	assert.Nil(t, loc)

	want := location.Location{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503}
	require.NoError(t, store.SaveSelectedLocation(want))

	loc, err = store.LoadSelectedLocation()
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, want, *loc)
}

func TestStore_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store := prefs.NewStore(prefs.StoreConfig{Dir: dir})

	require.NoError(t, store.SavePreferences(prefs.Default()))

	_, err := os.Stat(filepath.Join(dir, "preferences.json"))
	require.NoError(t, err)
}
