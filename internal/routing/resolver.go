package routing

import (
	"context"
	"math"

	"go.uber.org/zap"

	"dive/internal/geo"
)

// Source tags how a route estimate was derived.
type Source string

const (
	// SourceExternal means the estimate came from the routing provider.
	SourceExternal Source = "osrm_driving"
	// SourceFallback means the provider was unavailable and the
	// estimate is a great-circle approximation at assumed speed.
	SourceFallback Source = "direct_distance_fallback"
)

// RouteEstimate is a distance/duration figure between two coordinates.
// It is computed on demand and never persisted.
type RouteEstimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Source          Source  `json:"source"`
}

// Router is the external routing collaborator.
type Router interface {
	Route(ctx context.Context, start, end geo.Coordinate) (distanceM, durationS float64, err error)
}

// Resolver produces route estimates. It makes a single attempt against
// the external router and on any failure computes the estimate
// analytically, so Resolve never fails on valid coordinates.
type Resolver struct {
	router Router
	logger *zap.SugaredLogger
}

func NewResolver(router Router, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{router: router, logger: logger}
}

// Resolve returns an estimate between start and end. The only error it
// can return is geo.ErrInvalidCoordinate, checked before any network
// attempt.
func (r *Resolver) Resolve(ctx context.Context, start, end geo.Coordinate) (RouteEstimate, error) {
	if !start.Valid() || !end.Valid() {
		return RouteEstimate{}, geo.ErrInvalidCoordinate
	}

	distanceM, durationS, err := r.router.Route(ctx, start, end)
	if err == nil {
		return RouteEstimate{
			DistanceKm:      roundKm(distanceM / 1000),
			DurationMinutes: math.Round(durationS / 60),
			Source:          SourceExternal,
		}, nil
	}

	r.logger.Warnw("route calculation failed, falling back to direct distance", "error", err)

	distanceKm := geo.Distance(start, end)
	return RouteEstimate{
		DistanceKm:      roundKm(distanceKm),
		DurationMinutes: math.Round(geo.EstimateDuration(distanceKm, geo.DefaultSpeedKmh)),
		Source:          SourceFallback,
	}, nil
}

// roundKm keeps two decimal places, matching the wire format.
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
