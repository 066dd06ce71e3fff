package services

import (
	"context"
	"fmt"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// AvailableRiders returns riders that are online and not bound to any
// active route, optionally filtered by home hub.
//
// There is no reservation step: two concurrent allocation passes can both
// observe the same rider as available. That race is accepted and left to
// the storage engine's transaction isolation.
func AvailableRiders(ctx context.Context, store ports.Store, hubID *int64) ([]*domain.Rider, error) {
	riders, err := store.ListAvailableRiders(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("available riders: list riders: %w", err)
	}
	return riders, nil
}

// ridersForHub filters an already loaded rider pool down to those based at
// the given hub. Riders without a home hub are never allocated by hub.
func ridersForHub(riders []*domain.Rider, hubID int64) []*domain.Rider {
	out := make([]*domain.Rider, 0, len(riders))
	for _, r := range riders {
		if r.HubID != nil && *r.HubID == hubID {
			out = append(out, r)
		}
	}
	return out
}
