// Package location resolves free-text queries and device coordinates to
// canonical location records.
package location

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoLocation is returned by reverse lookup when no named location matches
// the coordinates.
var ErrNoLocation = errors.New("no matching location")

// LookupError indicates the geocoding upstream was unreachable or returned a
// malformed payload. A valid zero-match result is not a LookupError.
type LookupError struct {
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Failed to search location"
}

func (e *LookupError) Unwrap() error { return e.Err }

// UpstreamError is a non-OK response from the geocoding upstream, carrying
// the message from its error payload when one was present.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("geocoding upstream returned status %d", e.StatusCode)
}

// GeolocationReason classifies why device geolocation failed.
type GeolocationReason string

const (
	ReasonPermissionDenied    GeolocationReason = "permission-denied"
	ReasonPositionUnavailable GeolocationReason = "position-unavailable"
	ReasonTimeout             GeolocationReason = "timeout"
)

// GeolocationError reports a failed attempt to determine the device position.
type GeolocationError struct {
	Reason GeolocationReason
}

func (e *GeolocationError) Error() string {
	switch e.Reason {
	case ReasonPermissionDenied:
		return "Location permission denied. Please enable location access."
	case ReasonPositionUnavailable:
		return "Location information unavailable."
	case ReasonTimeout:
		return "Location request timed out."
	default:
		return "Unknown geolocation error occurred."
	}
}

// Location is a resolved place. Immutable once resolved; two locations are
// the same place when their coordinate pairs match.
type Location struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// SameCoordinates reports whether two locations share a coordinate pair.
// Used for de-duplicating saved locations.
func (l Location) SameCoordinates(other Location) bool {
	return l.Lat == other.Lat && l.Lon == other.Lon
}

// Key returns a stable identity string for the coordinate pair.
func (l Location) Key() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lon)
}

// DisplayName joins name, state, and country, skipping a state that merely
// repeats the name.
func (l Location) DisplayName() string {
	parts := make([]string, 0, 3)
	if l.Name != "" {
		parts = append(parts, l.Name)
	}
	if l.State != "" && l.State != l.Name {
		parts = append(parts, l.State)
	}
	if l.Country != "" {
		parts = append(parts, l.Country)
	}
	return strings.Join(parts, ", ")
}
