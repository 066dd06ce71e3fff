package services

import (
	"context"
	"slices"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// memStore is an in-memory Store used by service tests. Transactions are a
// pass-through: the fake does not simulate rollback.
type memStore struct {
	hubs      []*domain.Hub
	riders    []*domain.Rider
	shipments []*domain.Shipment
	routes    []*domain.Route

	nextRouteID int64
	nextStopID  int64
}

var _ ports.Store = (*memStore)(nil)

func (m *memStore) InTx(ctx context.Context, fn func(ports.Store) error) error {
	return fn(m)
}

func (m *memStore) ListActiveHubs(ctx context.Context) ([]*domain.Hub, error) {
	out := make([]*domain.Hub, 0, len(m.hubs))
	for _, h := range m.hubs {
		if h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) ListAvailableRiders(ctx context.Context, hubID *int64) ([]*domain.Rider, error) {
	out := make([]*domain.Rider, 0, len(m.riders))
	for _, r := range m.riders {
		if !r.Online {
			continue
		}
		if hubID != nil && (r.HubID == nil || *r.HubID != *hubID) {
			continue
		}
		if m.hasActiveRoute(r.RiderID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) hasActiveRoute(riderID int64) bool {
	for _, rt := range m.routes {
		if rt.Status == domain.RouteActive && rt.RiderID != nil && *rt.RiderID == riderID {
			return true
		}
	}
	return false
}

func (m *memStore) GetRider(ctx context.Context, riderID int64) (*domain.Rider, error) {
	for _, r := range m.riders {
		if r.RiderID == riderID {
			return r, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *memStore) ListShipmentsWithStops(ctx context.Context, hubID *int64, statuses []domain.ShipmentStatus) ([]*domain.Shipment, error) {
	out := make([]*domain.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		if !slices.Contains(statuses, s.Status) {
			continue
		}
		if hubID != nil && (s.HubID == nil || *s.HubID != *hubID) {
			continue
		}
		s.StopRefs = m.stopRefs(s.ShipmentID)
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) stopRefs(shipmentID int64) []domain.StopRef {
	var refs []domain.StopRef
	for _, rt := range m.routes {
		for _, st := range rt.Stops {
			if st.ShipmentID != nil && *st.ShipmentID == shipmentID {
				refs = append(refs, domain.StopRef{
					RouteID:      rt.RouteID,
					RouteStatus:  rt.Status,
					RouteRiderID: rt.RiderID,
					StopStatus:   st.Status,
				})
			}
		}
	}
	return refs
}

func (m *memStore) CreateRoute(ctx context.Context, route *domain.Route) error {
	m.nextRouteID++
	route.RouteID = m.nextRouteID
	for _, st := range route.Stops {
		m.nextStopID++
		st.StopID = m.nextStopID
		st.RouteID = route.RouteID
	}
	m.routes = append(m.routes, route)
	return nil
}

func (m *memStore) GetRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	for _, rt := range m.routes {
		if rt.RouteID == routeID {
			return rt, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *memStore) UpdateRoute(ctx context.Context, route *domain.Route) error {
	for i, rt := range m.routes {
		if rt.RouteID == route.RouteID {
			m.routes[i] = route
			return nil
		}
	}
	return ports.ErrNotFound
}

func (m *memStore) ReplaceStops(ctx context.Context, routeID int64, stops []*domain.RouteStop) error {
	rt, err := m.GetRoute(ctx, routeID)
	if err != nil {
		return err
	}
	for _, st := range stops {
		m.nextStopID++
		st.StopID = m.nextStopID
		st.RouteID = routeID
	}
	rt.Stops = stops
	return nil
}

func (m *memStore) AssignShipments(ctx context.Context, shipmentIDs []int64, riderID int64) error {
	for _, s := range m.shipments {
		if slices.Contains(shipmentIDs, s.ShipmentID) {
			rid := riderID
			s.Status = domain.ShipmentAssigned
			s.RiderID = &rid
		}
	}
	return nil
}
