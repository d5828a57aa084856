// Package scheduler drives the periodic background refresh of the dashboard.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// DefaultInterval is how often the dashboard refreshes when not configured
// otherwise.
const DefaultInterval = 30 * time.Minute

// RefreshFunc is invoked on every tick. Failures are logged and the schedule
// keeps running; the next tick retries naturally.
type RefreshFunc func(ctx context.Context) error

// Config holds configuration for the scheduler.
type Config struct {
	// Interval between refreshes. Defaults to DefaultInterval.
	Interval time.Duration

	// JobTimeout bounds a single refresh. Defaults to one minute.
	JobTimeout time.Duration

	// Refresh is called on every tick.
	Refresh RefreshFunc

	// Logger for scheduler operations.
	Logger zerolog.Logger
}

// Scheduler fires the refresh callback on a fixed interval.
type Scheduler struct {
	cron       *gocron.Scheduler
	interval   time.Duration
	jobTimeout time.Duration
	refresh    RefreshFunc
	logger     zerolog.Logger
}

// New creates a new scheduler.
func New(cfg Config) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	jobTimeout := cfg.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = time.Minute
	}

	return &Scheduler{
		cron:       gocron.NewScheduler(time.UTC),
		interval:   interval,
		jobTimeout: jobTimeout,
		refresh:    cfg.Refresh,
		logger:     cfg.Logger,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
// The first tick fires one full interval after Start; the caller does the
// initial refresh itself.
func (s *Scheduler) Start() error {
	_, err := s.cron.Every(s.interval).WaitForSchedule().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.cron.StartAsync()
	s.logger.Info().Dur("interval", s.interval).Msg("refresh scheduler started")
	return nil
}

// Stop stops the scheduler and cancels any future ticks.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if err := s.refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("scheduled refresh failed")
		return
	}
	s.logger.Debug().Msg("scheduled refresh completed")
}
