// Package prefs holds user preferences and their JSON persistence.
package prefs

import (
	"github.com/skycast/skycast/internal/location"
)

// TemperatureUnit selects how temperatures are rendered.
type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "celsius"
	UnitFahrenheit TemperatureUnit = "fahrenheit"
)

// Theme selects the dashboard color palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Dashboard controls which sections the dashboard renders. The booleans are
// independent toggles.
type Dashboard struct {
	ShowCurrentWeather bool `json:"showCurrentWeather"`
	ShowHourlyForecast bool `json:"showHourlyForecast"`
	ShowDailyForecast  bool `json:"showDailyForecast"`
	ShowExtendedInfo   bool `json:"showExtendedInfo"`
}

// Preferences is the persisted user preference record. Mutations go through
// Merge and WithSavedToggled, which return new values; the session owns the
// canonical copy.
type Preferences struct {
	TemperatureUnit TemperatureUnit     `json:"temperatureUnit"`
	Theme           Theme               `json:"theme"`
	DefaultLocation location.Location   `json:"defaultLocation"`
	SavedLocations  []location.Location `json:"savedLocations"`
	Dashboard       Dashboard           `json:"dashboardLayout"`
}

// Default returns the first-run preferences.
func Default() Preferences {
	return Preferences{
		TemperatureUnit: UnitCelsius,
		Theme:           ThemeLight,
		DefaultLocation: location.Location{
			Name: "New York",
			Lat:  40.7128,
			Lon:  -74.006,
		},
		SavedLocations: []location.Location{},
		Dashboard: Dashboard{
			ShowCurrentWeather: true,
			ShowHourlyForecast: true,
			ShowDailyForecast:  true,
			ShowExtendedInfo:   true,
		},
	}
}

// Update is a partial preference change; nil fields are left untouched.
type Update struct {
	TemperatureUnit *TemperatureUnit
	Theme           *Theme
	DefaultLocation *location.Location
	Dashboard       *Dashboard
}

// Merge applies a partial update and returns the merged preferences.
func (p Preferences) Merge(u Update) Preferences {
	if u.TemperatureUnit != nil {
		p.TemperatureUnit = *u.TemperatureUnit
	}
	if u.Theme != nil {
		p.Theme = *u.Theme
	}
	if u.DefaultLocation != nil {
		p.DefaultLocation = *u.DefaultLocation
	}
	if u.Dashboard != nil {
		p.Dashboard = *u.Dashboard
	}
	return p
}

// WithSavedToggled adds the location to the saved set, or removes it when a
// location with the same coordinate pair is already saved. Idempotent under
// coordinate equality: saving the same place twice yields one entry.
func (p Preferences) WithSavedToggled(loc location.Location) Preferences {
	saved := make([]location.Location, 0, len(p.SavedLocations)+1)
	removed := false
	for _, existing := range p.SavedLocations {
		if existing.SameCoordinates(loc) {
			removed = true
			continue
		}
		saved = append(saved, existing)
	}
	if !removed {
		saved = append(saved, loc)
	}
	p.SavedLocations = saved
	return p
}

// IsSaved reports whether a location with the same coordinates is saved.
func (p Preferences) IsSaved(loc location.Location) bool {
	for _, existing := range p.SavedLocations {
		if existing.SameCoordinates(loc) {
			return true
		}
	}
	return false
}
