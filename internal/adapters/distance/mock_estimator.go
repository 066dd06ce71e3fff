package distance

import (
	"context"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// MockEstimator returns a canned estimate (or error) for every request and
// counts calls. Test helper standing in for the external directions service.
type MockEstimator struct {
	Estimate ports.RouteEstimate
	Err      error
	Calls    int
}

func (m *MockEstimator) EstimateRoute(ctx context.Context, points []domain.Point) (ports.RouteEstimate, error) {
	m.Calls++
	if m.Err != nil {
		return ports.RouteEstimate{}, m.Err
	}
	return m.Estimate, nil
}
