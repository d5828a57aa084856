package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/location"
)

// Well-known file names inside the state directory.
const (
	preferencesFile      = "preferences.json"
	selectedLocationFile = "selected_location.json"
)

// Store persists preferences and the last selected location as JSON files.
// Documents are read once at startup and rewritten after every mutation;
// writes go through a temp file and rename so a crash never leaves a
// half-written document.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// StoreConfig holds configuration for the store.
type StoreConfig struct {
	// Dir is the state directory. Created on first write if missing.
	Dir string

	// Logger for store operations.
	Logger zerolog.Logger
}

// NewStore creates a new store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		dir:    cfg.Dir,
		logger: cfg.Logger,
	}
}

// LoadPreferences reads the persisted preferences, falling back to defaults
// on first run. A corrupt document is an error; the caller decides whether
// to reset.
func (s *Store) LoadPreferences() (Preferences, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, preferencesFile))
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Msg("no stored preferences, using defaults")
		return Default(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("reading preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("decoding preferences: %w", err)
	}

	return p, nil
}

// SavePreferences rewrites the preferences document.
func (s *Store) SavePreferences(p Preferences) error {
	return s.writeJSON(preferencesFile, p)
}

// LoadSelectedLocation reads the last selected location, or nil when none
// has been stored yet.
func (s *Store) LoadSelectedLocation() (*location.Location, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, selectedLocationFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading selected location: %w", err)
	}

	var loc location.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("decoding selected location: %w", err)
	}

	return &loc, nil
}

// SaveSelectedLocation rewrites the selected location document.
func (s *Store) SaveSelectedLocation(loc location.Location) error {
	return s.writeJSON(selectedLocationFile, loc)
}

// writeJSON marshals v and atomically replaces the named document.
func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}

	return nil
}
