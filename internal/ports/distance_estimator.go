package ports

import (
	"context"

	"shipment-route-service/internal/domain"
)

// Total distance and travel duration over an ordered point sequence.
type RouteEstimate struct {
	DistanceKm  float64
	DurationMin int
}

// Zero reports whether the estimate carries no usable data, which is how a
// degraded external provider answers.
func (e RouteEstimate) Zero() bool {
	return e.DistanceKm == 0 && e.DurationMin == 0
}

// Contract for estimating total distance and duration over an ordered
// sequence of at least two geographic points.
//
// Implementations backed by an external service must degrade to a zero
// estimate on provider failure or missing credentials instead of returning
// an error; callers substitute their own fallback.
type DistanceEstimator interface {
	EstimateRoute(ctx context.Context, points []domain.Point) (RouteEstimate, error)
}
