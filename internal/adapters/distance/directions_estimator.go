package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// DirectionsEstimator implements DistanceEstimator against a Directions-style
// HTTP service: one GET per estimate encoding origin, destination and
// waypoints (flagged for provider-side reordering), summing per-leg
// distance/duration of the first returned route.
//
// Degraded dependencies never surface as errors: a missing credential,
// transport failure or non-OK provider status yields a zero estimate and a
// logged warning, and the caller substitutes its fallback. No retries; a
// failed call costs exactly one round trip.
type DirectionsEstimator struct {
	client  *http.Client
	apiKey  string
	baseURL string
	cache   ports.EstimateCache
}

// NewDirectionsEstimator builds an estimator. baseURL overrides the default
// provider endpoint (used by tests and self-hosted gateways); cache may be
// nil.
func NewDirectionsEstimator(apiKey, baseURL string, cache ports.EstimateCache) *DirectionsEstimator {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}

	return &DirectionsEstimator{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: baseURL,
		cache:   cache,
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

func (e *DirectionsEstimator) EstimateRoute(ctx context.Context, points []domain.Point) (ports.RouteEstimate, error) {
	if len(points) < 2 {
		return ports.RouteEstimate{}, fmt.Errorf("estimate route: need at least 2 points, got %d", len(points))
	}

	if e.apiKey == "" {
		log.Printf("directions estimator: no API key configured, returning zero estimate")
		return ports.RouteEstimate{}, nil
	}

	if e.cache != nil {
		est, ok, err := e.cache.Get(ctx, points)
		if err != nil {
			log.Printf("directions estimator: cache get failed, treating as miss: %v", err)
		} else if ok {
			return est, nil
		}
	}

	req, err := e.newRequest(ctx, points)
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("estimate route: build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		log.Printf("directions estimator: request failed, returning zero estimate: %v", err)
		return ports.RouteEstimate{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("directions estimator: provider returned HTTP %d, returning zero estimate", resp.StatusCode)
		return ports.RouteEstimate{}, nil
	}

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		log.Printf("directions estimator: decode response failed, returning zero estimate: %v", err)
		return ports.RouteEstimate{}, nil
	}

	if dr.Status != "OK" || len(dr.Routes) == 0 {
		log.Printf("directions estimator: provider status %q with %d routes, returning zero estimate", dr.Status, len(dr.Routes))
		return ports.RouteEstimate{}, nil
	}

	meters := 0
	seconds := 0
	for _, leg := range dr.Routes[0].Legs {
		meters += leg.Distance.Value
		seconds += leg.Duration.Value
	}

	est := ports.RouteEstimate{
		DistanceKm:  float64(meters) / 1000,
		DurationMin: int(math.Round(float64(seconds) / 60)),
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, points, est); err != nil {
			log.Printf("directions estimator: cache put failed: %v", err)
		}
	}

	return est, nil
}

func (e *DirectionsEstimator) newRequest(ctx context.Context, points []domain.Point) (*http.Request, error) {
	q := url.Values{}
	q.Set("origin", formatPoint(points[0]))
	q.Set("destination", formatPoint(points[len(points)-1]))

	if len(points) > 2 {
		// optimize:true lets the provider reorder intermediate stops.
		parts := make([]string, 0, len(points)-1)
		parts = append(parts, "optimize:true")
		for _, p := range points[1 : len(points)-1] {
			parts = append(parts, formatPoint(p))
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	q.Set("key", e.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func formatPoint(p domain.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lon, 'f', 6, 64)
}
