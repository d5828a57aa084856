// Package main provides the entrypoint for the Skycast terminal dashboard.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/alerts"
	"github.com/skycast/skycast/internal/config"
	"github.com/skycast/skycast/internal/location"
	geoclient "github.com/skycast/skycast/internal/location/openweathermap"
	"github.com/skycast/skycast/internal/prefs"
	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/scheduler"
	"github.com/skycast/skycast/internal/session"
	"github.com/skycast/skycast/internal/ui"
	"github.com/skycast/skycast/internal/weather"
	owm "github.com/skycast/skycast/internal/weather/openweathermap"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "skycast:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the dashboard; logs go to a file or nowhere.
	logWriter := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}

	log := zerolog.New(logWriter).
		With().
		Timestamp().
		Str("service", "skycast").
		Str("version", Version).
		Logger()

	log.Info().Msg("starting skycast")

	weatherHTTP := resilience.NewClient(resilience.ClientConfig{
		Name:    "openweathermap",
		Timeout: cfg.HTTPTimeout,
	})
	geoHTTP := resilience.NewClient(resilience.ClientConfig{
		Name:    "openweathermap-geo",
		Timeout: cfg.HTTPTimeout,
	})

	weatherClient := owm.NewClient(owm.ClientConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.WeatherBaseURL,
		HTTPClient: weatherHTTP,
		Logger:     log,
	})
	geoClient := geoclient.NewClient(geoclient.ClientConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.GeoBaseURL,
		HTTPClient: geoHTTP,
		Logger:     log,
	})

	aggregator := weather.NewAggregator(weather.AggregatorConfig{
		Provider: weatherClient,
		Logger:   log,
	})
	resolver := location.NewResolver(location.ResolverConfig{
		Geocoder: geoClient,
		Logger:   log,
	})
	engine := alerts.NewEngine(alerts.EngineConfig{
		Notifier:             alerts.LogNotifier{Logger: log},
		NotificationsEnabled: cfg.NotificationsEnabled,
		Logger:               log,
	})
	store := prefs.NewStore(prefs.StoreConfig{
		Dir:    cfg.StateDir,
		Logger: log,
	})

	sess, err := session.New(session.Config{
		Aggregator: aggregator,
		Engine:     engine,
		Store:      store,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("restoring session state: %w", err)
	}

	locator := location.StaticLocator{
		Lat:        cfg.HomeLat,
		Lon:        cfg.HomeLon,
		Configured: cfg.HomeConfigured,
	}

	model := ui.NewModel(ui.Config{
		Session:        sess,
		Resolver:       resolver,
		Locator:        locator,
		DebounceWindow: cfg.DebounceWindow,
		FetchTimeout:   cfg.HTTPTimeout + 5*time.Second,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Background refresh keeps the dashboard current and re-evaluates alerts
	// while the user is idle.
	sched := scheduler.New(scheduler.Config{
		Interval:   cfg.RefreshInterval,
		JobTimeout: cfg.HTTPTimeout + 5*time.Second,
		Logger:     log,
		Refresh: func(ctx context.Context) error {
			snapshot, fired, err := sess.Refresh(ctx)
			if err != nil {
				return err
			}
			program.Send(ui.BackgroundRefreshMsg{Snapshot: snapshot, Alerts: fired})
			return nil
		},
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting refresh scheduler: %w", err)
	}
	defer sched.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}

	log.Info().Msg("skycast stopped")
	return nil
}
