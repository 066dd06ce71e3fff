package ports

import (
	"context"
	"errors"

	"shipment-route-service/internal/domain"
)

// ErrNotFound is returned by Store lookups for missing entities.
var ErrNotFound = errors.New("not found")

// Port: the persistence boundary for the route engine.
//
// All candidate-pool reads and route/shipment writes of one optimize pass
// run against the same transaction-scoped Store obtained through InTx, so
// a failure anywhere rolls back the whole pass.
type Store interface {
	// InTx runs fn against a transaction-scoped Store. Any error returned
	// by fn aborts the transaction and discards every write fn performed.
	// Calling InTx on an already transaction-scoped Store reuses the open
	// transaction.
	InTx(ctx context.Context, fn func(Store) error) error

	// ListActiveHubs returns hubs flagged active, in stable id order.
	ListActiveHubs(ctx context.Context) ([]*domain.Hub, error)

	// ListAvailableRiders returns riders that are online and have no route
	// in active status, optionally filtered by home hub. No locking: two
	// concurrent calls can both observe the same rider as available.
	ListAvailableRiders(ctx context.Context, hubID *int64) ([]*domain.Rider, error)

	// GetRider returns one rider or ErrNotFound.
	GetRider(ctx context.Context, riderID int64) (*domain.Rider, error)

	// ListShipmentsWithStops returns shipments in any of the given
	// statuses, optionally filtered by hub, each populated with its full
	// route-stop history (StopRefs) for the blocking-stop predicate.
	ListShipmentsWithStops(ctx context.Context, hubID *int64, statuses []domain.ShipmentStatus) ([]*domain.Shipment, error)

	// CreateRoute persists the route and its stops, filling in RouteID and
	// the stops' ids and route references.
	CreateRoute(ctx context.Context, route *domain.Route) error

	// GetRoute returns one route with stops ordered by stop order, or
	// ErrNotFound.
	GetRoute(ctx context.Context, routeID int64) (*domain.Route, error)

	// UpdateRoute rewrites the route's own row (name, rider, status,
	// metrics). Stops are replaced separately via ReplaceStops.
	UpdateRoute(ctx context.Context, route *domain.Route) error

	// ReplaceStops deletes every stop of the route and recreates the given
	// sequence. No diffing.
	ReplaceStops(ctx context.Context, routeID int64, stops []*domain.RouteStop) error

	// AssignShipments flips the given shipments to assigned status and
	// binds them to the rider.
	AssignShipments(ctx context.Context, shipmentIDs []int64, riderID int64) error
}
