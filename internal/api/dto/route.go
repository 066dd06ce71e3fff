package dto

import "time"

type StopRequest struct {
	Type       string  `json:"type"`
	ShipmentID *int64  `json:"shipment_id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

type RouteRequest struct {
	Name    string        `json:"name"`
	HubID   int64         `json:"hub_id"`
	RiderID *int64        `json:"rider_id"`
	Status  string        `json:"status"`
	Stops   []StopRequest `json:"stops"`
}

type StopResponse struct {
	StopID     int64   `json:"stop_id"`
	Order      int     `json:"order"`
	Type       string  `json:"type"`
	ShipmentID *int64  `json:"shipment_id,omitempty"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Status     string  `json:"status"`
}

type RouteResponse struct {
	RouteID     int64          `json:"route_id"`
	Name        string         `json:"name"`
	HubID       int64          `json:"hub_id"`
	RiderID     *int64         `json:"rider_id,omitempty"`
	Status      string         `json:"status"`
	DistanceKm  float64        `json:"distance_km"`
	DurationMin int            `json:"duration_min"`
	CreatedAt   time.Time      `json:"created_at"`
	Stops       []StopResponse `json:"stops"`
}
