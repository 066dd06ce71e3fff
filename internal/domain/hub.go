package domain

// Physical sorting/dispatch facility that shipments and riders are
// associated with. Hubs are administered outside this engine; the engine
// only reads them.
type Hub struct {
	HubID    int64
	Name     string
	Address  string
	Location *Point // nil disables distance-based clustering for this hub
	Active   bool
}

// Point returns the hub's coordinates, or the zero point when the hub has
// none recorded.
func (h *Hub) Point() Point {
	if h.Location != nil {
		return *h.Location
	}
	return Point{}
}
