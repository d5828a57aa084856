package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skycast/skycast/internal/prefs"
	"github.com/skycast/skycast/internal/weather"
)

// formatTemp renders a Celsius temperature in the preferred unit, rounded to
// the nearest whole degree.
func formatTemp(celsius float64, unit prefs.TemperatureUnit) string {
	if unit == prefs.UnitFahrenheit {
		return fmt.Sprintf("%d°F", int(math.Round(celsius*9/5+32)))
	}
	return fmt.Sprintf("%d°C", int(math.Round(celsius)))
}

// formatWind renders wind speed with a compass direction.
func formatWind(speedKMH, directionDeg float64) string {
	return fmt.Sprintf("%.0f km/h %s", speedKMH, compassPoint(directionDeg))
}

// compassPoint converts degrees to one of eight compass points.
func compassPoint(deg float64) string {
	points := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int(math.Round(deg/45.0)) % 8
	if idx < 0 {
		idx += 8
	}
	return points[idx]
}

// formatClock renders an epoch timestamp as a local wall-clock time.
func formatClock(epoch int64) string {
	return time.Unix(epoch, 0).Format("15:04")
}

// formatDay renders an epoch timestamp as a short weekday name.
func formatDay(epoch int64) string {
	return time.Unix(epoch, 0).Format("Mon")
}

// formatHour renders an epoch timestamp as an hour label.
func formatHour(epoch int64) string {
	return time.Unix(epoch, 0).Format("15h")
}

// conditionGlyph maps a condition group to a terminal-friendly glyph.
func conditionGlyph(main string) string {
	switch strings.ToLower(main) {
	case "clear":
		return "☀"
	case "clouds":
		return "☁"
	case "rain", "drizzle":
		return "🌧"
	case "thunderstorm":
		return "⛈"
	case "snow":
		return "❄"
	case "mist", "fog", "haze", "smoke", "dust", "sand", "ash", "squall", "tornado":
		return "🌫"
	default:
		return "·"
	}
}

// aqiLabel renders an air quality index as a human-readable label.
func aqiLabel(aq weather.AirQuality) string {
	if !aq.Known() {
		return "Unknown"
	}
	switch aq.AQI {
	case 1:
		return "Good"
	case 2:
		return "Fair"
	case 3:
		return "Moderate"
	case 4:
		return "Poor"
	default:
		return "Very Poor"
	}
}
