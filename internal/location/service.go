package location

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// maxCandidates caps forward geocoding results.
const maxCandidates = 5

// Geocoder defines the interface for geocoding providers.
type Geocoder interface {
	// Search performs forward geocoding, ranked by upstream relevance.
	Search(ctx context.Context, query string, limit int) ([]Location, error)

	// Reverse performs reverse geocoding for a coordinate pair.
	Reverse(ctx context.Context, lat, lon float64, limit int) ([]Location, error)

	// Name returns the provider name for logging.
	Name() string
}

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// Geocoder is the geocoding provider.
	Geocoder Geocoder

	// Logger for resolver operations.
	Logger zerolog.Logger
}

// Resolver resolves queries and coordinates to canonical locations.
type Resolver struct {
	geocoder Geocoder
	logger   zerolog.Logger
}

// NewResolver creates a new resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		geocoder: cfg.Geocoder,
		logger:   cfg.Logger,
	}
}

// Search resolves a free-text query to up to 5 candidate locations in
// upstream relevance order. An empty or whitespace-only query short-circuits
// to an empty result without issuing a network call. Zero matches is a valid
// empty result, not an error.
func (r *Resolver) Search(ctx context.Context, query string) ([]Location, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	candidates, err := r.geocoder.Search(ctx, query, maxCandidates)
	if err != nil {
		r.logger.Error().Err(err).Str("query", query).Msg("location search failed")
		return nil, &LookupError{Message: upstreamMessage(err), Err: err}
	}

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	return candidates, nil
}

// Reverse resolves a coordinate pair to the single best-matching named
// location.
func (r *Resolver) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	candidates, err := r.geocoder.Reverse(ctx, lat, lon, maxCandidates)
	if err != nil {
		r.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("reverse geocoding failed")
		return Location{}, &LookupError{Message: upstreamMessage(err), Err: err}
	}

	if len(candidates) == 0 {
		return Location{}, ErrNoLocation
	}

	best := candidates[0]
	best.Lat = lat
	best.Lon = lon
	return best, nil
}

// upstreamMessage pulls a specific upstream message out of the error chain
// when the geocoding provider supplied one.
func upstreamMessage(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message
	}
	return ""
}
