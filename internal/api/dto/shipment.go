package dto

type PointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ShipmentResponse struct {
	ShipmentID int64     `json:"shipment_id"`
	Status     string    `json:"status"`
	Pickup     *PointDTO `json:"pickup,omitempty"`
	Delivery   *PointDTO `json:"delivery,omitempty"`
	RiderID    *int64    `json:"rider_id,omitempty"`
	HubID      *int64    `json:"hub_id,omitempty"`
}

type ListShipmentsResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
}
