package services

import (
	"context"
	"fmt"
	"testing"

	"shipment-route-service/internal/adapters/distance"
	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

func i64(v int64) *int64 { return &v }

func hubAt(id int64, name string, lat, lon float64) *domain.Hub {
	return &domain.Hub{HubID: id, Name: name, Location: point(lat, lon), Active: true}
}

func riderAt(id, hubID int64) *domain.Rider {
	return &domain.Rider{RiderID: id, UserID: id + 100, HubID: i64(hubID), Online: true}
}

func pendingNear(id int64, lat, lon float64) *domain.Shipment {
	return &domain.Shipment{
		ShipmentID: id,
		Status:     domain.ShipmentPending,
		Pickup:     point(lat, lon),
		Delivery:   point(lat+0.01, lon+0.01),
	}
}

func TestAutoOptimizeNoActiveHubs(t *testing.T) {
	store := &memStore{}

	result, err := AutoOptimize(context.Background(), store, &distance.MockEstimator{}, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 {
		t.Fatalf("created = %d, want 0", result.Created)
	}
	if result.Message != "no active hubs" {
		t.Fatalf("message = %q, want %q", result.Message, "no active hubs")
	}
	if len(store.routes) != 0 {
		t.Fatalf("routes written = %d, want 0", len(store.routes))
	}
}

func TestAutoOptimizeNoRiders(t *testing.T) {
	store := &memStore{
		hubs:      []*domain.Hub{hubAt(1, "Central", 0, 0)},
		shipments: []*domain.Shipment{pendingNear(1, 0.1, 0.1)},
	}

	result, err := AutoOptimize(context.Background(), store, &distance.MockEstimator{}, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 {
		t.Fatalf("created = %d, want 0", result.Created)
	}
	if result.Message != "no available riders" {
		t.Fatalf("message = %q, want %q", result.Message, "no available riders")
	}
}

func TestAutoOptimizeSingleBatch(t *testing.T) {
	store := &memStore{
		hubs:   []*domain.Hub{hubAt(1, "Central", 0, 0)},
		riders: []*domain.Rider{riderAt(1, 1)},
		shipments: []*domain.Shipment{
			pendingNear(1, 0.1, 0.1),
			pendingNear(2, 0.2, 0.1),
			pendingNear(3, 0.1, 0.2),
		},
	}

	// Zero-estimate provider: every route gets the heuristic fallback.
	estimator := &distance.MockEstimator{}

	result, err := AutoOptimize(context.Background(), store, estimator, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created = %d, want 1", result.Created)
	}
	if len(store.routes) != 1 {
		t.Fatalf("routes written = %d, want 1", len(store.routes))
	}

	route := store.routes[0]
	if route.Name != "Central - Automated Route #1" {
		t.Fatalf("route name = %q", route.Name)
	}
	if route.Status != domain.RouteActive {
		t.Fatalf("route status = %q, want active", route.Status)
	}
	if route.RiderID == nil || *route.RiderID != 1 {
		t.Fatalf("route rider = %v, want 1", route.RiderID)
	}

	if len(route.Stops) != 6 {
		t.Fatalf("stop count = %d, want 6", len(route.Stops))
	}
	for i, st := range route.Stops {
		if st.StopOrder != i+1 {
			t.Fatalf("stop %d order = %d, want %d", i, st.StopOrder, i+1)
		}
		wantType := domain.StopPickup
		if i >= 3 {
			wantType = domain.StopDelivery
		}
		if st.Type != wantType {
			t.Fatalf("stop %d type = %q, want %q", i, st.Type, wantType)
		}
	}

	// Heuristic fallback: 1.5 km and 10 min per shipment.
	if route.DistanceKm != 4.5 {
		t.Fatalf("distance = %v, want 4.5", route.DistanceKm)
	}
	if route.DurationMin != 30 {
		t.Fatalf("duration = %d, want 30", route.DurationMin)
	}

	for _, s := range store.shipments {
		if s.Status != domain.ShipmentAssigned {
			t.Fatalf("shipment %d status = %q, want assigned", s.ShipmentID, s.Status)
		}
		if s.RiderID == nil || *s.RiderID != *route.RiderID {
			t.Fatalf("shipment %d rider = %v, want %d", s.ShipmentID, s.RiderID, *route.RiderID)
		}
	}
}

func TestAutoOptimizeBatchSplit(t *testing.T) {
	store := &memStore{
		hubs: []*domain.Hub{hubAt(1, "Central", 0, 0)},
		riders: []*domain.Rider{
			riderAt(1, 1), riderAt(2, 1), riderAt(3, 1),
		},
	}
	for i := 1; i <= 20; i++ {
		store.shipments = append(store.shipments, pendingNear(int64(i), 0.1, 0.1))
	}

	result, err := AutoOptimize(context.Background(), store, &distance.MockEstimator{}, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 3 {
		t.Fatalf("created = %d, want 3", result.Created)
	}

	wantStops := []int{16, 16, 8} // batches of 8, 8, 4 shipments
	riders := make(map[int64]bool)
	for i, route := range store.routes {
		if len(route.Stops) != wantStops[i] {
			t.Fatalf("route %d stop count = %d, want %d", i, len(route.Stops), wantStops[i])
		}
		if route.RiderID == nil {
			t.Fatalf("route %d has no rider", i)
		}
		if riders[*route.RiderID] {
			t.Fatalf("rider %d received two routes in one pass", *route.RiderID)
		}
		riders[*route.RiderID] = true

		wantName := fmt.Sprintf("Central - Automated Route #%d", i+1)
		if route.Name != wantName {
			t.Fatalf("route %d name = %q, want %q", i, route.Name, wantName)
		}
	}

	for _, s := range store.shipments {
		if s.Status != domain.ShipmentAssigned {
			t.Fatalf("shipment %d left in status %q", s.ShipmentID, s.Status)
		}
	}
}

func TestAutoOptimizeClustersAcrossHubs(t *testing.T) {
	store := &memStore{
		hubs: []*domain.Hub{
			hubAt(1, "North", 10, 0),
			hubAt(2, "South", -10, 0),
		},
		riders: []*domain.Rider{riderAt(1, 1), riderAt(2, 2)},
		shipments: []*domain.Shipment{
			pendingNear(1, 9, 0),
			pendingNear(2, -9, 0),
			pendingNear(3, 11, 1),
		},
	}

	result, err := AutoOptimize(context.Background(), store, &distance.MockEstimator{}, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("created = %d, want 2", result.Created)
	}

	for _, route := range store.routes {
		for _, st := range route.Stops {
			if st.ShipmentID == nil {
				continue
			}
			var shipment *domain.Shipment
			for _, s := range store.shipments {
				if s.ShipmentID == *st.ShipmentID {
					shipment = s
				}
			}
			if shipment.RiderID == nil || *shipment.RiderID != *route.RiderID {
				t.Fatalf("shipment %d rider %v does not match its route rider %d",
					shipment.ShipmentID, shipment.RiderID, *route.RiderID)
			}
		}
	}
}

func TestAutoOptimizeSecondPassCreatesNothing(t *testing.T) {
	store := &memStore{
		hubs:   []*domain.Hub{hubAt(1, "Central", 0, 0)},
		riders: []*domain.Rider{riderAt(1, 1)},
		shipments: []*domain.Shipment{
			pendingNear(1, 0.1, 0.1),
			pendingNear(2, 0.2, 0.2),
		},
	}

	first, err := AutoOptimize(context.Background(), store, &distance.MockEstimator{}, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Created != 1 {
		t.Fatalf("first pass created = %d, want 1", first.Created)
	}

	second, err := AutoOptimize(context.Background(), store, &distance.MockEstimator{}, DefaultOptimizerConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Created != 0 {
		t.Fatalf("second pass created = %d, want 0", second.Created)
	}
	if len(store.routes) != 1 {
		t.Fatalf("routes after two passes = %d, want 1", len(store.routes))
	}
}

func TestAutoOptimizeUsesProviderEstimate(t *testing.T) {
	store := &memStore{
		hubs:      []*domain.Hub{hubAt(1, "Central", 0, 0)},
		riders:    []*domain.Rider{riderAt(1, 1)},
		shipments: []*domain.Shipment{pendingNear(1, 0.1, 0.1)},
	}

	estimator := &distance.MockEstimator{
		Estimate: ports.RouteEstimate{DistanceKm: 12.3, DurationMin: 41},
	}

	if _, err := AutoOptimize(context.Background(), store, estimator, DefaultOptimizerConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	route := store.routes[0]
	if route.DistanceKm != 12.3 || route.DurationMin != 41 {
		t.Fatalf("route metrics = (%v, %d), want provider estimate (12.3, 41)", route.DistanceKm, route.DurationMin)
	}
	if estimator.Calls != 1 {
		t.Fatalf("estimator calls = %d, want 1", estimator.Calls)
	}
}
