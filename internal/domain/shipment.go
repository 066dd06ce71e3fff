package domain

type ShipmentStatus string

const (
	ShipmentPending       ShipmentStatus = "pending"
	ShipmentAssigned      ShipmentStatus = "assigned"
	ShipmentPickedUp      ShipmentStatus = "picked_up"
	ShipmentInTransit     ShipmentStatus = "in_transit"
	ShipmentReceivedAtHub ShipmentStatus = "received_at_hub"
	ShipmentScheduled     ShipmentStatus = "scheduled"
	ShipmentDelivered     ShipmentStatus = "delivered"
	ShipmentCancelled     ShipmentStatus = "cancelled"
	ShipmentReturned      ShipmentStatus = "returned"
	ShipmentFailed        ShipmentStatus = "failed"
)

// Shipment is a single cash-on-delivery parcel. This engine mutates a
// shipment only by setting its rider and flipping pending/received_at_hub
// to assigned.
type Shipment struct {
	ShipmentID int64
	Status     ShipmentStatus
	Pickup     *Point
	Delivery   *Point
	RiderID    *int64
	HubID      *int64

	// StopRefs is the shipment's route-stop history, populated when the
	// caller needs the blocking-stop predicate. Stale entries from
	// abandoned routes are expected here; StopRef.Blocks tells live claims
	// from dead history.
	StopRefs []StopRef
}

// InFirstLeg reports whether the shipment has not yet reached its hub, i.e.
// it is still on the merchant pickup leg. Shipments at or past the hub are
// on the customer delivery leg.
func (s *Shipment) InFirstLeg() bool {
	switch s.Status {
	case ShipmentPending, ShipmentAssigned, ShipmentPickedUp, ShipmentInTransit:
		return true
	default:
		return false
	}
}
