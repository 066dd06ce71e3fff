package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"shipment-route-service/internal/api/dto"
	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
	"shipment-route-service/internal/services"
)

// RouteHandler exposes manual route planning: create and full update.
type RouteHandler struct {
	Store     ports.Store
	Estimator ports.DistanceEstimator
	Config    services.OptimizerConfig
}

// Create handles POST /routes.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	in, ok := decodeRouteRequest(w, r)
	if !ok {
		return
	}

	route, err := services.CreateRoute(r.Context(), h.Store, h.Estimator, h.Config, in)
	if err != nil {
		log.Printf("create route failed: %v", err)
		writeError(w, r, http.StatusBadRequest, "could not create route")
		return
	}

	writeJSON(w, r, http.StatusCreated, routeResponse(route))
}

// Update handles PATCH /routes/{id}, replacing the route's fields and its
// whole stop list.
func (h *RouteHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		w.Header().Set("Allow", "PATCH, PUT")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idRaw := strings.TrimPrefix(r.URL.Path, "/routes/")
	routeID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || routeID <= 0 {
		writeError(w, r, http.StatusBadRequest, "route id must be a positive integer")
		return
	}

	in, ok := decodeRouteRequest(w, r)
	if !ok {
		return
	}

	route, err := services.UpdateRoute(r.Context(), h.Store, h.Estimator, h.Config, routeID, in)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}
	if err != nil {
		log.Printf("update route %d failed: %v", routeID, err)
		writeError(w, r, http.StatusBadRequest, "could not update route")
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(route))
}

func decodeRouteRequest(w http.ResponseWriter, r *http.Request) (services.RouteInput, bool) {
	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return services.RouteInput{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return services.RouteInput{}, false
	}

	stops := make([]services.StopInput, 0, len(req.Stops))
	for _, st := range req.Stops {
		stops = append(stops, services.StopInput{
			Type:       domain.StopType(st.Type),
			ShipmentID: st.ShipmentID,
			Location:   domain.Point{Lat: st.Lat, Lon: st.Lon},
		})
	}

	return services.RouteInput{
		Name:    req.Name,
		HubID:   req.HubID,
		RiderID: req.RiderID,
		Status:  domain.RouteStatus(req.Status),
		Stops:   stops,
	}, true
}

func routeResponse(route *domain.Route) dto.RouteResponse {
	stops := make([]dto.StopResponse, 0, len(route.Stops))
	for _, st := range route.Stops {
		stops = append(stops, dto.StopResponse{
			StopID:     st.StopID,
			Order:      st.StopOrder,
			Type:       string(st.Type),
			ShipmentID: st.ShipmentID,
			Lat:        st.Location.Lat,
			Lon:        st.Location.Lon,
			Status:     string(st.Status),
		})
	}

	return dto.RouteResponse{
		RouteID:     route.RouteID,
		Name:        route.Name,
		HubID:       route.HubID,
		RiderID:     route.RiderID,
		Status:      string(route.Status),
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		CreatedAt:   route.CreatedAt,
		Stops:       stops,
	}
}
