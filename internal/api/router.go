package api

import (
	"net/http"

	"shipment-route-service/internal/api/handlers"
	"shipment-route-service/internal/ports"
	"shipment-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(store ports.Store, estimator ports.DistanceEstimator, cfg services.OptimizerConfig) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{Store: store, Estimator: estimator, Config: cfg}
	shipmentHandler := &handlers.ShipmentHandler{Store: store}
	riderHandler := &handlers.RiderHandler{Store: store}
	routeHandler := &handlers.RouteHandler{Store: store, Estimator: estimator, Config: cfg}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/optimize", optimizeHandler.Run)
	mux.HandleFunc("/shipments/unassigned", shipmentHandler.Unassigned)
	mux.HandleFunc("/riders/available", riderHandler.Available)
	mux.HandleFunc("/routes", routeHandler.Create)
	mux.HandleFunc("/routes/", routeHandler.Update)

	return loggingMiddleware(mux)
}
