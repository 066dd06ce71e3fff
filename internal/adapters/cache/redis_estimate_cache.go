package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// RedisEstimateCache is a Redis-backed cache for route estimates, keyed by
// the ordered point sequence. Points are rounded to 5 decimal places
// (roughly one meter) so re-planning the same batch hits the cache even
// when coordinates wobble in the last digits.
type RedisEstimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEstimateCache(client *redis.Client, ttl time.Duration) *RedisEstimateCache {
	return &RedisEstimateCache{client: client, ttl: ttl}
}

type cachedEstimate struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

// Get fetches a cached estimate; a missing key is (zero, false, nil).
func (c *RedisEstimateCache) Get(ctx context.Context, points []domain.Point) (ports.RouteEstimate, bool, error) {
	if c.client == nil {
		return ports.RouteEstimate{}, false, errors.New("estimate cache: client is nil")
	}

	raw, err := c.client.Get(ctx, cacheKey(points)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.RouteEstimate{}, false, nil
	}
	if err != nil {
		return ports.RouteEstimate{}, false, fmt.Errorf("estimate cache: get: %w", err)
	}

	var ce cachedEstimate
	if err := json.Unmarshal([]byte(raw), &ce); err != nil {
		return ports.RouteEstimate{}, false, fmt.Errorf("estimate cache: decode: %w", err)
	}

	return ports.RouteEstimate{DistanceKm: ce.DistanceKm, DurationMin: ce.DurationMin}, true, nil
}

// Put stores an estimate under the point-sequence key with the cache TTL.
func (c *RedisEstimateCache) Put(ctx context.Context, points []domain.Point, est ports.RouteEstimate) error {
	if c.client == nil {
		return errors.New("estimate cache: client is nil")
	}

	raw, err := json.Marshal(cachedEstimate{DistanceKm: est.DistanceKm, DurationMin: est.DurationMin})
	if err != nil {
		return fmt.Errorf("estimate cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(points), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("estimate cache: set: %w", err)
	}

	return nil
}

func cacheKey(points []domain.Point) string {
	var b strings.Builder
	b.WriteString("route_estimate:")
	for i, p := range points {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%.5f,%.5f", p.Lat, p.Lon)
	}
	return b.String()
}
