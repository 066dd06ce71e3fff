package services

import (
	"errors"
	"math"

	"shipment-route-service/internal/domain"
)

// NearestHub picks the active hub with minimum distance to the shipment's
// pickup point under the given metric. A nil metric defaults to planar
// distance: cheap and good enough at city scale.
//
// Shipments without a pickup point, and hub lists where no hub carries
// coordinates, fall back to the first hub in input order.
func NearestHub(shipment *domain.Shipment, hubs []*domain.Hub, metric domain.DistanceMetric) (*domain.Hub, error) {
	if len(hubs) == 0 {
		return nil, errors.New("nearest hub: hub list must not be empty")
	}
	if metric == nil {
		metric = domain.PlanarDistance
	}

	if shipment.Pickup == nil {
		return hubs[0], nil
	}

	var best *domain.Hub
	bestDist := math.MaxFloat64

	for _, h := range hubs {
		if h.Location == nil {
			continue
		}

		d := metric(*shipment.Pickup, *h.Location)
		if d < bestDist {
			bestDist = d
			best = h
		}
	}

	if best == nil {
		return hubs[0], nil
	}
	return best, nil
}

// ClusterByHub groups shipments by their nearest active hub, preserving the
// shipments' input order within each group.
func ClusterByHub(shipments []*domain.Shipment, hubs []*domain.Hub, metric domain.DistanceMetric) (map[int64][]*domain.Shipment, error) {
	clusters := make(map[int64][]*domain.Shipment, len(hubs))

	for _, s := range shipments {
		hub, err := NearestHub(s, hubs, metric)
		if err != nil {
			return nil, err
		}
		clusters[hub.HubID] = append(clusters[hub.HubID], s)
	}

	return clusters, nil
}
