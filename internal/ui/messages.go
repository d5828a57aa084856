package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycast/skycast/internal/alerts"
	"github.com/skycast/skycast/internal/location"
	"github.com/skycast/skycast/internal/session"
	"github.com/skycast/skycast/internal/weather"
)

// debounceMsg fires when a search debounce window elapses. Only the message
// carrying the latest sequence number triggers a search; stale ones are
// dropped.
type debounceMsg struct {
	seq int
}

// searchResultsMsg carries forward-geocoding results.
type searchResultsMsg struct {
	query   string
	results []location.Location
	err     error
}

// locatedMsg carries the resolved device position.
type locatedMsg struct {
	loc location.Location
	err error
}

// refreshedMsg carries a completed snapshot refresh.
type refreshedMsg struct {
	snapshot *weather.Snapshot
	alerts   []alerts.Alert
	err      error
}

// BackgroundRefreshMsg is sent into the program from outside when the
// periodic scheduler has refreshed the session behind the UI's back.
type BackgroundRefreshMsg struct {
	Snapshot *weather.Snapshot
	Alerts   []alerts.Alert
}

// debounceTick waits out the debounce window and reports back with the
// sequence number it was armed with.
func debounceTick(seq int, window time.Duration) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// searchLocations runs a forward geocoding search in the background.
func searchLocations(resolver *location.Resolver, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		results, err := resolver.Search(ctx, query)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// locateDevice resolves the device position and reverse-geocodes it to a
// named location.
func locateDevice(locator location.Locator, resolver *location.Resolver, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		lat, lon, err := locator.Locate(ctx)
		if err != nil {
			return locatedMsg{err: err}
		}

		loc, err := resolver.Reverse(ctx, lat, lon)
		if err != nil {
			return locatedMsg{err: err}
		}
		return locatedMsg{loc: loc}
	}
}

// refreshSnapshot fetches a fresh snapshot for the session's selected
// location.
func refreshSnapshot(sess *session.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snapshot, fired, err := sess.Refresh(ctx)
		return refreshedMsg{snapshot: snapshot, alerts: fired, err: err}
	}
}
