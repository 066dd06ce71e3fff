package handlers

import (
	"log"
	"net/http"

	"shipment-route-service/internal/api/dto"
	"shipment-route-service/internal/ports"
	"shipment-route-service/internal/services"
)

// RiderHandler exposes the available-rider pool.
type RiderHandler struct {
	Store ports.Store
}

func (h *RiderHandler) Available(w http.ResponseWriter, r *http.Request) {
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

	riders, err := services.AvailableRiders(r.Context(), h.Store, hubID)
	if err != nil {
		log.Printf("list available riders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRidersResponse{
		Riders: make([]dto.RiderResponse, 0, len(riders)),
	}
	for _, rd := range riders {
		res.Riders = append(res.Riders, dto.RiderResponse{
			RiderID: rd.RiderID,
			UserID:  rd.UserID,
			HubID:   rd.HubID,
			Online:  rd.Online,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
