package ports

import (
	"context"

	"shipment-route-service/internal/domain"
)

// Optional cache for route estimates, keyed by the ordered point sequence.
// A miss is (zero, false, nil). Cache failures are reported as errors so the
// caller can log and treat them as a miss.
type EstimateCache interface {
	Get(ctx context.Context, points []domain.Point) (RouteEstimate, bool, error)
	Put(ctx context.Context, points []domain.Point, est RouteEstimate) error
}
