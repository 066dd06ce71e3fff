package services

import (
	"context"
	"testing"

	"shipment-route-service/internal/domain"
)

func shipmentWithRefs(id int64, rider *int64, refs ...domain.StopRef) *domain.Shipment {
	return &domain.Shipment{
		ShipmentID: id,
		Status:     domain.ShipmentPending,
		RiderID:    rider,
		StopRefs:   refs,
	}
}

func TestFilterUnassigned(t *testing.T) {
	rider := i64(3)
	otherRider := i64(4)

	cases := []struct {
		name     string
		shipment *domain.Shipment
		wantFree bool
	}{
		{
			name:     "no stop history is free",
			shipment: shipmentWithRefs(1, nil),
			wantFree: true,
		},
		{
			name: "draft route stop blocks",
			shipment: shipmentWithRefs(2, nil,
				domain.StopRef{RouteID: 1, RouteStatus: domain.RouteDraft, StopStatus: domain.StopPending}),
			wantFree: false,
		},
		{
			name: "active route with matching rider blocks",
			shipment: shipmentWithRefs(3, rider,
				domain.StopRef{RouteID: 1, RouteStatus: domain.RouteActive, RouteRiderID: rider, StopStatus: domain.StopPending}),
			wantFree: false,
		},
		{
			name: "active route with different rider is stale history",
			shipment: shipmentWithRefs(4, rider,
				domain.StopRef{RouteID: 1, RouteStatus: domain.RouteActive, RouteRiderID: otherRider, StopStatus: domain.StopPending}),
			wantFree: true,
		},
		{
			name: "completed stop frees even on draft route",
			shipment: shipmentWithRefs(5, rider,
				domain.StopRef{RouteID: 1, RouteStatus: domain.RouteDraft, StopStatus: domain.StopCompleted}),
			wantFree: true,
		},
		{
			name: "only stop on completed route is free",
			shipment: shipmentWithRefs(6, rider,
				domain.StopRef{RouteID: 1, RouteStatus: domain.RouteCompleted, RouteRiderID: rider, StopStatus: domain.StopPending}),
			wantFree: true,
		},
		{
			name: "one live claim among stale history blocks",
			shipment: shipmentWithRefs(7, rider,
				domain.StopRef{RouteID: 1, RouteStatus: domain.RouteCompleted, StopStatus: domain.StopPending},
				domain.StopRef{RouteID: 2, RouteStatus: domain.RouteDraft, StopStatus: domain.StopPending}),
			wantFree: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free := FilterUnassigned([]*domain.Shipment{tc.shipment})
			got := len(free) == 1
			if got != tc.wantFree {
				t.Fatalf("free = %v, want %v", got, tc.wantFree)
			}
		})
	}
}

func TestUnassignedShipmentsExcludesDraftClaims(t *testing.T) {
	rider := i64(1)
	store := &memStore{
		shipments: []*domain.Shipment{
			{ShipmentID: 1, Status: domain.ShipmentPending},
			{ShipmentID: 2, Status: domain.ShipmentPending},
			{ShipmentID: 3, Status: domain.ShipmentDelivered}, // terminal, out of scope
		},
		routes: []*domain.Route{
			{
				RouteID: 1,
				Status:  domain.RouteDraft,
				RiderID: rider,
				Stops: []*domain.RouteStop{
					{StopOrder: 1, Type: domain.StopPickup, ShipmentID: i64(2), Status: domain.StopPending},
				},
			},
		},
	}

	free, err := UnassignedShipments(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(free) != 1 {
		t.Fatalf("free count = %d, want 1", len(free))
	}
	if free[0].ShipmentID != 1 {
		t.Fatalf("free shipment = %d, want 1", free[0].ShipmentID)
	}
}

func TestUnassignedShipmentsHubFilter(t *testing.T) {
	store := &memStore{
		shipments: []*domain.Shipment{
			{ShipmentID: 1, Status: domain.ShipmentPending, HubID: i64(1)},
			{ShipmentID: 2, Status: domain.ShipmentPending, HubID: i64(2)},
			{ShipmentID: 3, Status: domain.ShipmentPending},
		},
	}

	free, err := UnassignedShipments(context.Background(), store, i64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(free) != 1 || free[0].ShipmentID != 2 {
		t.Fatalf("hub-filtered result = %v, want only shipment 2", free)
	}
}
