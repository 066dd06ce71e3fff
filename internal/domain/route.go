package domain

import "time"

type RouteStatus string

const (
	RouteDraft     RouteStatus = "draft"
	RouteActive    RouteStatus = "active"
	RouteCompleted RouteStatus = "completed"
	RouteDeleted   RouteStatus = "deleted"
)

type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
	StopWaypoint StopType = "waypoint"
)

type StopStatus string

const (
	StopPending   StopStatus = "pending"
	StopCompleted StopStatus = "completed"
)

// Route is a persisted rider itinerary over an ordered stop sequence.
// DistanceKm and DurationMin are planning estimates, not measured values.
type Route struct {
	RouteID     int64
	Name        string
	HubID       int64
	RiderID     *int64
	Status      RouteStatus
	DistanceKm  float64
	DurationMin int
	CreatedAt   time.Time
	Stops       []*RouteStop
}

// RouteStop is one ordered pickup/delivery/waypoint event within a route.
// StopOrder values within a route form a contiguous 1..N sequence.
type RouteStop struct {
	StopID     int64
	RouteID    int64
	StopOrder  int
	Type       StopType
	ShipmentID *int64 // nil for pure waypoints
	Location   Point
	Status     StopStatus
}

// StopRef is the route-side context of one stop in a shipment's history,
// as needed by the blocking-stop predicate.
type StopRef struct {
	RouteID      int64
	RouteStatus  RouteStatus
	RouteRiderID *int64
	StopStatus   StopStatus
}

// Blocks reports whether this stop is a live claim on the shipment.
// Draft routes always block: they represent an in-progress manual plan.
// Active routes block only when the route's rider matches the shipment's
// current rider. Completed stops never block, whatever the route status,
// and neither do completed or deleted routes.
func (r StopRef) Blocks(shipmentRider *int64) bool {
	if r.StopStatus == StopCompleted {
		return false
	}

	switch r.RouteStatus {
	case RouteDraft:
		return true
	case RouteActive:
		return r.RouteRiderID != nil && shipmentRider != nil && *r.RouteRiderID == *shipmentRider
	default:
		return false
	}
}
