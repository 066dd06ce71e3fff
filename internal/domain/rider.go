package domain

// Rider is a delivery agent. Availability is derived, never stored: a rider
// is available iff it is online and has no active route bound to it.
type Rider struct {
	RiderID int64
	UserID  int64
	HubID   *int64 // home hub; nil riders are never picked up by hub-scoped allocation
	Online  bool
}
