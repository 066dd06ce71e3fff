package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// OptimizerConfig carries the engine's knobs. It is injected explicitly;
// the engine never reads ambient global state.
type OptimizerConfig struct {
	// BatchSize is the maximum shipments per rider per pass.
	BatchSize int
	// FallbackKmPerShipment and FallbackMinPerShipment produce the
	// deterministic planning estimate substituted when the directions
	// service returns no data.
	FallbackKmPerShipment  float64
	FallbackMinPerShipment int
}

func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		BatchSize:              DefaultBatchSize,
		FallbackKmPerShipment:  1.5,
		FallbackMinPerShipment: 10,
	}
}

// FallbackEstimate is the heuristic route estimate used when the external
// provider degrades, so every route carries a non-zero planning estimate.
func FallbackEstimate(cfg OptimizerConfig, batchSize int) ports.RouteEstimate {
	return ports.RouteEstimate{
		DistanceKm:  cfg.FallbackKmPerShipment * float64(batchSize),
		DurationMin: cfg.FallbackMinPerShipment * batchSize,
	}
}

// PlanStops builds the ordered stop sequence for a batch: every pickup in
// batch order (orders 1..N), then every delivery in the same order
// (N+1..2N). No interleaving, no nearest-neighbor resequencing.
func PlanStops(hub *domain.Hub, shipments []*domain.Shipment) []*domain.RouteStop {
	n := len(shipments)
	stops := make([]*domain.RouteStop, 0, 2*n)

	for i, s := range shipments {
		id := s.ShipmentID
		stops = append(stops, &domain.RouteStop{
			StopOrder:  i + 1,
			Type:       domain.StopPickup,
			ShipmentID: &id,
			Location:   pickupPoint(hub, s),
			Status:     domain.StopPending,
		})
	}

	for i, s := range shipments {
		id := s.ShipmentID
		stops = append(stops, &domain.RouteStop{
			StopOrder:  n + i + 1,
			Type:       domain.StopDelivery,
			ShipmentID: &id,
			Location:   deliveryPoint(hub, s),
			Status:     domain.StopPending,
		})
	}

	return stops
}

// A parcel already received at the hub is collected from the hub itself,
// not from the original merchant address.
func pickupPoint(hub *domain.Hub, s *domain.Shipment) domain.Point {
	if s.Status == domain.ShipmentReceivedAtHub {
		return hub.Point()
	}
	if s.Pickup != nil {
		return *s.Pickup
	}
	return hub.Point()
}

// A first-leg shipment is being moved into the hub, so its delivery target
// is the hub. Only parcels already past the hub leg go out to the customer
// address.
func deliveryPoint(hub *domain.Hub, s *domain.Shipment) domain.Point {
	if s.InFirstLeg() {
		return hub.Point()
	}
	if s.Delivery != nil {
		return *s.Delivery
	}
	return hub.Point()
}

// PlanRouteRequest describes one route to plan for a rider and batch.
type PlanRouteRequest struct {
	Hub    *domain.Hub
	Batch  Batch
	Name   string
	Status domain.RouteStatus
}

// PlanRoute constructs the stop sequence for the batch and estimates
// distance/duration, falling back to the heuristic on a zero estimate. The
// returned route is not persisted; planning happens up front so no external
// round trip runs while a write transaction is open.
func PlanRoute(
	ctx context.Context,
	estimator ports.DistanceEstimator,
	cfg OptimizerConfig,
	req PlanRouteRequest,
) (*domain.Route, error) {
	if req.Hub == nil {
		return nil, fmt.Errorf("plan route: hub must be non-nil")
	}
	if req.Batch.Rider == nil {
		return nil, fmt.Errorf("plan route: batch rider must be non-nil")
	}
	if len(req.Batch.Shipments) == 0 {
		return nil, fmt.Errorf("plan route: batch must contain at least one shipment")
	}

	stops := PlanStops(req.Hub, req.Batch.Shipments)

	est := estimateStops(ctx, estimator, stops)
	if est.Zero() {
		est = FallbackEstimate(cfg, len(req.Batch.Shipments))
	}

	riderID := req.Batch.Rider.RiderID
	return &domain.Route{
		Name:        req.Name,
		HubID:       req.Hub.HubID,
		RiderID:     &riderID,
		Status:      req.Status,
		DistanceKm:  est.DistanceKm,
		DurationMin: est.DurationMin,
		CreatedAt:   time.Now().UTC(),
		Stops:       stops,
	}, nil
}

// persistPlannedRoute writes a planned route with its stops and flips the
// batch's shipments to assigned with the rider bound. The caller holds a
// transaction-scoped store so a failure here aborts the whole pass.
func persistPlannedRoute(ctx context.Context, store ports.Store, route *domain.Route, batch Batch) error {
	if err := store.CreateRoute(ctx, route); err != nil {
		return fmt.Errorf("create route %q: %w", route.Name, err)
	}

	ids := make([]int64, 0, len(batch.Shipments))
	for _, s := range batch.Shipments {
		ids = append(ids, s.ShipmentID)
	}
	if err := store.AssignShipments(ctx, ids, *route.RiderID); err != nil {
		return fmt.Errorf("assign shipments to rider %d: %w", *route.RiderID, err)
	}

	return nil
}

// estimateStops asks the estimator for the full stop sequence. Estimator
// errors degrade to a zero estimate; the caller substitutes the fallback.
func estimateStops(ctx context.Context, estimator ports.DistanceEstimator, stops []*domain.RouteStop) ports.RouteEstimate {
	if estimator == nil || len(stops) < 2 {
		return ports.RouteEstimate{}
	}

	points := make([]domain.Point, 0, len(stops))
	for _, st := range stops {
		points = append(points, st.Location)
	}

	est, err := estimator.EstimateRoute(ctx, points)
	if err != nil {
		log.Printf("route estimate failed, substituting fallback: %v", err)
		return ports.RouteEstimate{}
	}

	return est
}
