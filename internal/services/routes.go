package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// StopInput is one stop of a manually planned route, in desired visit
// order. Order numbers are assigned densely by the service.
type StopInput struct {
	Type       domain.StopType
	ShipmentID *int64
	Location   domain.Point
}

// RouteInput describes a manually planned route. Status defaults to draft,
// the state the planning UI keeps a route in until it is dispatched.
type RouteInput struct {
	Name    string
	HubID   int64
	RiderID *int64
	Status  domain.RouteStatus
	Stops   []StopInput
}

func (in *RouteInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("route name must be non-empty")
	}
	if in.HubID <= 0 {
		return errors.New("route hub is required")
	}

	switch in.Status {
	case "":
		in.Status = domain.RouteDraft
	case domain.RouteDraft, domain.RouteActive, domain.RouteCompleted, domain.RouteDeleted:
	default:
		return fmt.Errorf("unknown route status %q", in.Status)
	}

	for i, st := range in.Stops {
		switch st.Type {
		case domain.StopPickup, domain.StopDelivery, domain.StopWaypoint:
		default:
			return fmt.Errorf("stop %d: unknown stop type %q", i+1, st.Type)
		}
		if st.Type != domain.StopWaypoint && st.ShipmentID == nil {
			return fmt.Errorf("stop %d: %s stop requires a shipment", i+1, st.Type)
		}
	}

	return nil
}

// CreateRoute persists a manually planned route with its stop sequence.
// A rider bound at creation time must be online.
func CreateRoute(
	ctx context.Context,
	store ports.Store,
	estimator ports.DistanceEstimator,
	cfg OptimizerConfig,
	in RouteInput,
) (*domain.Route, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	// Estimate before the transaction opens so the provider round trip
	// never runs with the transaction held.
	stops := buildStops(in.Stops)
	est := estimateStops(ctx, estimator, stops)
	if est.Zero() {
		est = FallbackEstimate(cfg, fallbackSize(stops))
	}

	var created *domain.Route
	err := store.InTx(ctx, func(tx ports.Store) error {
		if err := checkRiderOnline(ctx, tx, in.RiderID); err != nil {
			return err
		}

		route := &domain.Route{
			Name:        in.Name,
			HubID:       in.HubID,
			RiderID:     in.RiderID,
			Status:      in.Status,
			DistanceKm:  est.DistanceKm,
			DurationMin: est.DurationMin,
			CreatedAt:   time.Now().UTC(),
			Stops:       stops,
		}
		if err := tx.CreateRoute(ctx, route); err != nil {
			return fmt.Errorf("create route %q: %w", in.Name, err)
		}

		created = route
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	return created, nil
}

// UpdateRoute rewrites a route's fields and replaces its entire stop list.
// Stops are deleted and recreated wholesale on every update; there is no
// incremental diffing.
func UpdateRoute(
	ctx context.Context,
	store ports.Store,
	estimator ports.DistanceEstimator,
	cfg OptimizerConfig,
	routeID int64,
	in RouteInput,
) (*domain.Route, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("update route %d: %w", routeID, err)
	}

	stops := buildStops(in.Stops)
	est := estimateStops(ctx, estimator, stops)
	if est.Zero() {
		est = FallbackEstimate(cfg, fallbackSize(stops))
	}

	var updated *domain.Route
	err := store.InTx(ctx, func(tx ports.Store) error {
		existing, err := tx.GetRoute(ctx, routeID)
		if err != nil {
			return fmt.Errorf("load route %d: %w", routeID, err)
		}

		if err := checkRiderOnline(ctx, tx, in.RiderID); err != nil {
			return err
		}

		existing.Name = in.Name
		existing.HubID = in.HubID
		existing.RiderID = in.RiderID
		existing.Status = in.Status
		existing.DistanceKm = est.DistanceKm
		existing.DurationMin = est.DurationMin

		if err := tx.UpdateRoute(ctx, existing); err != nil {
			return fmt.Errorf("update route %d: %w", routeID, err)
		}
		if err := tx.ReplaceStops(ctx, routeID, stops); err != nil {
			return fmt.Errorf("replace stops of route %d: %w", routeID, err)
		}

		existing.Stops = stops
		updated = existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update route: %w", err)
	}

	return updated, nil
}

func buildStops(inputs []StopInput) []*domain.RouteStop {
	stops := make([]*domain.RouteStop, 0, len(inputs))
	for i, in := range inputs {
		stops = append(stops, &domain.RouteStop{
			StopOrder:  i + 1,
			Type:       in.Type,
			ShipmentID: in.ShipmentID,
			Location:   in.Location,
			Status:     domain.StopPending,
		})
	}
	return stops
}

// fallbackSize is the shipment count the heuristic estimate scales with:
// distinct shipments referenced by the stops, or the raw stop count for
// waypoint-only routes.
func fallbackSize(stops []*domain.RouteStop) int {
	seen := make(map[int64]struct{})
	for _, st := range stops {
		if st.ShipmentID != nil {
			seen[*st.ShipmentID] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return len(stops)
	}
	return len(seen)
}

func checkRiderOnline(ctx context.Context, store ports.Store, riderID *int64) error {
	if riderID == nil {
		return nil
	}

	rider, err := store.GetRider(ctx, *riderID)
	if err != nil {
		return fmt.Errorf("load rider %d: %w", *riderID, err)
	}
	if !rider.Online {
		return fmt.Errorf("rider %d is offline", *riderID)
	}
	return nil
}
