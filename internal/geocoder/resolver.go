package geocoder

import (
	"context"
	"fmt"

	"incident-report-api/internal/models"
	"incident-report-api/internal/observability"

	"github.com/rs/zerolog"
)

// Provider performs a single geocoding request.
type Provider interface {
	Geocode(ctx context.Context, address string) (Response, error)
}

// Resolver tries fallback addresses against a provider until one yields an
// exact, non-route match.
type Resolver struct {
	provider Provider
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewResolver creates a resolver backed by the given provider.
func NewResolver(provider Provider, metrics *observability.Metrics, logger zerolog.Logger) *Resolver {
	return &Resolver{provider: provider, metrics: metrics, logger: logger}
}

// Resolve queries the candidates in order and returns the first acceptable
// location. A provider error aborts immediately with a *TransportError; when
// every candidate comes back empty the result is an *ExhaustedError naming
// the original address.
func (r *Resolver) Resolve(ctx context.Context, original string, candidates []string) (models.GeoPoint, error) {
	for i, candidate := range candidates {
		point, ok, err := r.resolveOne(ctx, candidate)
		if err != nil {
			r.metrics.GeocodeCandidates.Observe(float64(i + 1))
			return models.GeoPoint{}, &TransportError{Address: candidate, Err: err}
		}
		if ok {
			r.metrics.GeocodeCandidates.Observe(float64(i + 1))
			r.logger.Info().
				Str("address", original).
				Str("candidate", candidate).
				Int("attempt", i+1).
				Msg("geocoding succeeded")
			return point, nil
		}
	}

	r.metrics.GeocodeCandidates.Observe(float64(len(candidates)))
	return models.GeoPoint{}, &ExhaustedError{Address: original, Candidates: len(candidates)}
}

func (r *Resolver) resolveOne(ctx context.Context, candidate string) (models.GeoPoint, bool, error) {
	resp, err := r.provider.Geocode(ctx, candidate)
	if err != nil {
		return models.GeoPoint{}, false, fmt.Errorf("resolver: %w", err)
	}

	if resp.Status != StatusOK {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "no error_message"
		}
		r.logger.Warn().
			Str("candidate", candidate).
			Str("status", resp.Status).
			Str("error_message", msg).
			Msg("geocoding status not OK")
		return models.GeoPoint{}, false, nil
	}

	for _, result := range resp.Results {
		if result.PartialMatch || result.hasType(routeType) {
			continue
		}
		loc, ok := result.location()
		if !ok {
			continue
		}
		return models.GeoPoint{Latitude: loc.Lat, Longitude: loc.Lng}, true, nil
	}

	r.logger.Debug().
		Str("candidate", candidate).
		Int("results", len(resp.Results)).
		Msg("no exact match among geocoding results")
	return models.GeoPoint{}, false, nil
}
