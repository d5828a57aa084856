// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	defaultRefreshInterval = 30 * time.Minute
	defaultDebounceWindow  = 400 * time.Millisecond
	defaultHTTPTimeout     = 10 * time.Second
)

// Config is the resolved application configuration.
type Config struct {
	// APIKey authenticates against the OpenWeatherMap APIs.
	APIKey string `validate:"required"`

	// WeatherBaseURL overrides the weather API base URL. Empty means the
	// client default.
	WeatherBaseURL string `validate:"omitempty,url"`

	// GeoBaseURL overrides the geocoding API base URL.
	GeoBaseURL string `validate:"omitempty,url"`

	// RefreshInterval is how often the dashboard refreshes in the background.
	RefreshInterval time.Duration `validate:"gt=0"`

	// DebounceWindow is the idle time before a search query is sent.
	DebounceWindow time.Duration `validate:"gt=0"`

	// HTTPTimeout bounds each upstream HTTP request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// StateDir is where preferences and the selected location persist.
	StateDir string `validate:"required"`

	// LogFile receives structured logs. Empty disables file logging; logs
	// never go to the terminal, which the dashboard owns.
	LogFile string

	// NotificationsEnabled gates alert notifications.
	NotificationsEnabled bool

	// HomeLat and HomeLon are the fixed device position used when the
	// dashboard asks for "my location". Optional.
	HomeLat float64 `validate:"gte=-90,lte=90"`
	HomeLon float64 `validate:"gte=-180,lte=180"`

	// HomeConfigured reports whether both home coordinates were set.
	HomeConfigured bool
}

// Load reads configuration from a .env file (when present) and the
// environment, applies defaults, and validates the result.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:               os.Getenv("SKYCAST_API_KEY"),
		WeatherBaseURL:       os.Getenv("SKYCAST_WEATHER_BASE_URL"),
		GeoBaseURL:           os.Getenv("SKYCAST_GEO_BASE_URL"),
		LogFile:              os.Getenv("SKYCAST_LOG_FILE"),
		NotificationsEnabled: getenvDefault("SKYCAST_NOTIFICATIONS", "true") == "true",
	}

	var err error
	if cfg.RefreshInterval, err = getenvDuration("SKYCAST_REFRESH_INTERVAL", defaultRefreshInterval); err != nil {
		return nil, err
	}
	if cfg.DebounceWindow, err = getenvDuration("SKYCAST_DEBOUNCE_WINDOW", defaultDebounceWindow); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("SKYCAST_HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return nil, err
	}

	cfg.StateDir = os.Getenv("SKYCAST_STATE_DIR")
	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}

	if err := loadHome(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadHome parses the optional fixed device position. Both coordinates must
// be present for the position to count as configured.
func loadHome(cfg *Config) error {
	latStr := os.Getenv("SKYCAST_HOME_LAT")
	lonStr := os.Getenv("SKYCAST_HOME_LON")
	if latStr == "" && lonStr == "" {
		return nil
	}
	if latStr == "" || lonStr == "" {
		return fmt.Errorf("SKYCAST_HOME_LAT and SKYCAST_HOME_LON must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return fmt.Errorf("invalid SKYCAST_HOME_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return fmt.Errorf("invalid SKYCAST_HOME_LON: %w", err)
	}

	cfg.HomeLat = lat
	cfg.HomeLon = lon
	cfg.HomeConfigured = true
	return nil
}

// defaultStateDir resolves the per-user state directory, falling back to the
// working directory when the user config dir is unavailable.
func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".skycast"
	}
	return filepath.Join(base, "skycast")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
