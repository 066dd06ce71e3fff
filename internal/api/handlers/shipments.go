package handlers

import (
	"log"
	"net/http"

	"shipment-route-service/internal/api/dto"
	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
	"shipment-route-service/internal/services"
)

// ShipmentHandler exposes the unassigned-shipment pool for the manual
// planning UI.
type ShipmentHandler struct {
	Store ports.Store
}

func (h *ShipmentHandler) Unassigned(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	hubID, ok := hubFilter(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "hub_id must be a positive integer")
		return
	}

	shipments, err := services.UnassignedShipments(r.Context(), h.Store, hubID)
	if err != nil {
		log.Printf("list unassigned shipments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListShipmentsResponse{
		Shipments: make([]dto.ShipmentResponse, 0, len(shipments)),
	}
	for _, s := range shipments {
		res.Shipments = append(res.Shipments, dto.ShipmentResponse{
			ShipmentID: s.ShipmentID,
			Status:     string(s.Status),
			Pickup:     pointDTO(s.Pickup),
			Delivery:   pointDTO(s.Delivery),
			RiderID:    s.RiderID,
			HubID:      s.HubID,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func pointDTO(p *domain.Point) *dto.PointDTO {
	if p == nil {
		return nil
	}
	return &dto.PointDTO{Lat: p.Lat, Lon: p.Lon}
}
