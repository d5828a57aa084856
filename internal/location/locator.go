package location

import "context"

// Locator determines the device's current position. Implementations are
// environment-specific; failures are reported as *GeolocationError so the UI
// can show a reason-specific message and fall back to the default location.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// StaticLocator reports a fixed position, typically sourced from
// configuration. When no position is configured it fails with
// position-unavailable.
type StaticLocator struct {
	Lat        float64
	Lon        float64
	Configured bool
}

// Locate returns the configured position.
func (s StaticLocator) Locate(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, &GeolocationError{Reason: ReasonTimeout}
	}
	if !s.Configured {
		return 0, 0, &GeolocationError{Reason: ReasonPositionUnavailable}
	}
	return s.Lat, s.Lon, nil
}
