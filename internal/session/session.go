// Package session owns the canonical dashboard state: the current weather
// snapshot, the derived alert set, the selected location, and the user
// preferences. All mutations go through the session (single-writer
// discipline); readers get copies.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/alerts"
	"github.com/skycast/skycast/internal/location"
	"github.com/skycast/skycast/internal/prefs"
	"github.com/skycast/skycast/internal/weather"
)

// Config holds the session's collaborators.
type Config struct {
	Aggregator *weather.Aggregator
	Engine     *alerts.Engine
	Store      *prefs.Store
	Logger     zerolog.Logger
}

// Session is the canonical state owner.
type Session struct {
	aggregator *weather.Aggregator
	engine     *alerts.Engine
	store      *prefs.Store
	logger     zerolog.Logger

	mu       sync.RWMutex
	prefs    prefs.Preferences
	selected *location.Location
	snapshot *weather.Snapshot
	alerts   []alerts.Alert
}

// New creates a session, loading persisted preferences and the last selected
// location.
func New(cfg Config) (*Session, error) {
	p, err := cfg.Store.LoadPreferences()
	if err != nil {
		return nil, err
	}

	selected, err := cfg.Store.LoadSelectedLocation()
	if err != nil {
		return nil, err
	}

	return &Session{
		aggregator: cfg.Aggregator,
		engine:     cfg.Engine,
		store:      cfg.Store,
		logger:     cfg.Logger,
		prefs:      p,
		selected:   selected,
	}, nil
}

// Preferences returns a copy of the current preferences.
func (s *Session) Preferences() prefs.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SelectedLocation returns the selected location, or nil before any
// selection has been made.
func (s *Session) SelectedLocation() *location.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	loc := *s.selected
	return &loc
}

// Snapshot returns the current snapshot, or nil when none has been fetched.
// Snapshots are immutable; sharing the pointer is safe.
func (s *Session) Snapshot() *weather.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Alerts returns a copy of the current alert set.
func (s *Session) Alerts() []alerts.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]alerts.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// SelectLocation sets and persists the selected location. The stale snapshot
// for the previous location is dropped; the caller triggers a refresh.
func (s *Session) SelectLocation(loc location.Location) error {
	if err := s.store.SaveSelectedLocation(loc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &loc
	s.snapshot = nil
	s.alerts = nil
	return nil
}

// ErrNoSelection is returned by Refresh before any location is selected.
var ErrNoSelection = errors.New("no location selected")

// Refresh fetches a fresh snapshot for the selected location and re-derives
// the alert set. A failed fetch leaves the previous state untouched; on
// success the snapshot and alerts are replaced wholesale. Overlapping calls
// are last-write-wins.
func (s *Session) Refresh(ctx context.Context) (*weather.Snapshot, []alerts.Alert, error) {
	s.mu.RLock()
	selected := s.selected
	s.mu.RUnlock()

	if selected == nil {
		return nil, nil, ErrNoSelection
	}

	snap, err := s.aggregator.FetchSnapshot(ctx, selected.Lat, selected.Lon)
	if err != nil {
		return nil, nil, err
	}

	fired := s.engine.Derive(snap)

	s.mu.Lock()
	s.snapshot = snap
	s.alerts = fired
	s.mu.Unlock()

	return snap, fired, nil
}

// ReevaluateAlerts re-runs the alert rules against the current snapshot,
// replacing the alert set. Called on a fixed interval while a snapshot is
// present; a no-op without one.
func (s *Session) ReevaluateAlerts() []alerts.Alert {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap == nil {
		return nil
	}

	fired := s.engine.Derive(snap)

	s.mu.Lock()
	s.alerts = fired
	s.mu.Unlock()

	return fired
}

// UpdatePreferences merges a partial update, persists the result, and
// returns the new preferences.
func (s *Session) UpdatePreferences(u prefs.Update) (prefs.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.prefs.Merge(u)
	if err := s.store.SavePreferences(merged); err != nil {
		return s.prefs, err
	}

	s.prefs = merged
	return merged, nil
}

// ToggleSavedLocation toggles a saved location and persists the result.
func (s *Session) ToggleSavedLocation(loc location.Location) (prefs.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	toggled := s.prefs.WithSavedToggled(loc)
	if err := s.store.SavePreferences(toggled); err != nil {
		return s.prefs, err
	}

	s.prefs = toggled
	return toggled, nil
}
