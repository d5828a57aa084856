package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skycast/skycast/internal/prefs"
	"github.com/skycast/skycast/internal/weather"
)

func TestFormatTemp(t *testing.T) {
	tests := []struct {
		name    string
		celsius float64
		unit    prefs.TemperatureUnit
		want    string
	}{
		{"celsius rounds half up", 25.6, prefs.UnitCelsius, "26°C"},
		{"celsius rounds down", 25.4, prefs.UnitCelsius, "25°C"},
		{"fahrenheit conversion", 25.6, prefs.UnitFahrenheit, "78°F"},
		{"fahrenheit freezing", 0, prefs.UnitFahrenheit, "32°F"},
		{"negative celsius", -5.5, prefs.UnitCelsius, "-5°C"},
		{"body temperature", 36.9, prefs.UnitFahrenheit, "98°F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTemp(tt.celsius, tt.unit))
		})
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{359, "N"},
		{22, "N"},
		{23, "NE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, compassPoint(tt.deg), "deg=%v", tt.deg)
	}
}

func TestAQILabel(t *testing.T) {
	assert.Equal(t, "Unknown", aqiLabel(weather.AirQuality{AQI: weather.AQIUnknown}))
	assert.Equal(t, "Good", aqiLabel(weather.AirQuality{AQI: 1}))
	assert.Equal(t, "Moderate", aqiLabel(weather.AirQuality{AQI: 3}))
	assert.Equal(t, "Poor", aqiLabel(weather.AirQuality{AQI: 4}))
	assert.Equal(t, "Very Poor", aqiLabel(weather.AirQuality{AQI: 5}))
}

func TestConditionGlyph(t *testing.T) {
	assert.Equal(t, "☀", conditionGlyph("Clear"))
	assert.Equal(t, "⛈", conditionGlyph("Thunderstorm"))
	assert.Equal(t, "🌧", conditionGlyph("Drizzle"))
	assert.Equal(t, "·", conditionGlyph("Meteor Shower"))
}
