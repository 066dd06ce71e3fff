package handlers

import (
	"log"
	"net/http"

	"shipment-route-service/internal/api/dto"
	"shipment-route-service/internal/ports"
	"shipment-route-service/internal/services"
)

// OptimizeHandler triggers one automatic route-assignment pass.
type OptimizeHandler struct {
	Store     ports.Store
	Estimator ports.DistanceEstimator
	Config    services.OptimizerConfig
}

func (h *OptimizeHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := services.AutoOptimize(r.Context(), h.Store, h.Estimator, h.Config)
	if err != nil {
		log.Printf("auto optimize failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		Success: true,
		Created: result.Created,
		Message: result.Message,
	})
}
