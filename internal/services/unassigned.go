package services

import (
	"context"
	"fmt"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// PlannableStatuses are the in-flight statuses eligible for new route
// planning in the manual planning UI.
var PlannableStatuses = []domain.ShipmentStatus{
	domain.ShipmentPending,
	domain.ShipmentAssigned,
	domain.ShipmentPickedUp,
	domain.ShipmentInTransit,
	domain.ShipmentReceivedAtHub,
	domain.ShipmentScheduled,
}

// OptimizePoolStatuses are the statuses the automatic optimizer pulls from:
// not yet picked up, or waiting at a hub for the delivery leg.
var OptimizePoolStatuses = []domain.ShipmentStatus{
	domain.ShipmentPending,
	domain.ShipmentReceivedAtHub,
}

// FilterUnassigned strips shipments that carry a blocking route-stop
// reference, keeping only those truly free to add to a new route.
//
// A shipment accumulates stop history from abandoned and superseded routes;
// StopRef.Blocks is the only thing that tells a live claim from dead
// history.
func FilterUnassigned(shipments []*domain.Shipment) []*domain.Shipment {
	out := make([]*domain.Shipment, 0, len(shipments))
	for _, s := range shipments {
		if !hasBlockingStop(s) {
			out = append(out, s)
		}
	}
	return out
}

func hasBlockingStop(s *domain.Shipment) bool {
	for _, ref := range s.StopRefs {
		if ref.Blocks(s.RiderID) {
			return true
		}
	}
	return false
}

// UnassignedShipments returns the shipments free for manual route planning,
// optionally filtered by hub.
func UnassignedShipments(ctx context.Context, store ports.Store, hubID *int64) ([]*domain.Shipment, error) {
	candidates, err := store.ListShipmentsWithStops(ctx, hubID, PlannableStatuses)
	if err != nil {
		return nil, fmt.Errorf("unassigned shipments: list candidates: %w", err)
	}

	return FilterUnassigned(candidates), nil
}
