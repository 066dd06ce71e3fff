package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema used by the route engine.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createHubsQuery := `
	CREATE TABLE IF NOT EXISTS hubs (
		hub_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createRidersQuery := `
	CREATE TABLE IF NOT EXISTS riders (
		rider_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		hub_id BIGINT REFERENCES hubs(hub_id),
		online BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		shipment_id BIGSERIAL PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'pending',
		pickup_lat DOUBLE PRECISION,
		pickup_lon DOUBLE PRECISION,
		delivery_lat DOUBLE PRECISION,
		delivery_lon DOUBLE PRECISION,
		rider_id BIGINT REFERENCES riders(rider_id),
		hub_id BIGINT REFERENCES hubs(hub_id)
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		hub_id BIGINT NOT NULL REFERENCES hubs(hub_id),
		rider_id BIGINT REFERENCES riders(rider_id),
		status TEXT NOT NULL DEFAULT 'draft',
		distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		duration_min INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createRouteStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		stop_id BIGSERIAL PRIMARY KEY,
		route_id BIGINT NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
		stop_order INTEGER NOT NULL,
		stop_type TEXT NOT NULL,
		shipment_id BIGINT REFERENCES shipments(shipment_id),
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		UNIQUE (route_id, stop_order)
	);
	`

	createIndexesQuery := `
	CREATE INDEX IF NOT EXISTS idx_shipments_status_hub ON shipments(status, hub_id);
	CREATE INDEX IF NOT EXISTS idx_routes_rider_status ON routes(rider_id, status);
	CREATE INDEX IF NOT EXISTS idx_route_stops_shipment ON route_stops(shipment_id);
	`

	statements := []string{
		createHubsQuery,
		createRidersQuery,
		createShipmentsQuery,
		createRoutesQuery,
		createRouteStopsQuery,
		createIndexesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type HubSeed struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Active  bool     `json:"active"`
}

type RiderSeed struct {
	UserID int64  `json:"user_id"`
	Hub    string `json:"hub"`
	Online bool   `json:"online"`
}

type ShipmentSeed struct {
	Status      string   `json:"status"`
	PickupLat   *float64 `json:"pickup_lat"`
	PickupLon   *float64 `json:"pickup_lon"`
	DeliveryLat *float64 `json:"delivery_lat"`
	DeliveryLon *float64 `json:"delivery_lon"`
	Hub         string   `json:"hub"`
}

type Seed struct {
	Hubs      []HubSeed      `json:"hubs"`
	Riders    []RiderSeed    `json:"riders"`
	Shipments []ShipmentSeed `json:"shipments"`
}

// Populate the database with demo hubs, riders and shipments from a JSON
// file. Riders and shipments reference hubs by name.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed data: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed data: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	hubIDs := make(map[string]int64, len(seed.Hubs))
	for i, h := range seed.Hubs {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			return fmt.Errorf("seed data: hub at index %d: name cannot be empty", i+1)
		}

		var id int64
		err := tx.QueryRow(`
		INSERT INTO hubs (name, address, lat, lon, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING hub_id;
		`, name, h.Address, h.Lat, h.Lon, h.Active).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed data: insert hub %q: %w", name, err)
		}
		hubIDs[name] = id
	}

	for i, r := range seed.Riders {
		var hub any
		if r.Hub != "" {
			id, ok := hubIDs[r.Hub]
			if !ok {
				return fmt.Errorf("seed data: rider at index %d references unknown hub %q", i+1, r.Hub)
			}
			hub = id
		}

		if _, err := tx.Exec(`
		INSERT INTO riders (user_id, hub_id, online)
		VALUES ($1, $2, $3);
		`, r.UserID, hub, r.Online); err != nil {
			return fmt.Errorf("seed data: insert rider at index %d: %w", i+1, err)
		}
	}

	for i, sh := range seed.Shipments {
		status := sh.Status
		if status == "" {
			status = "pending"
		}

		var hub any
		if sh.Hub != "" {
			id, ok := hubIDs[sh.Hub]
			if !ok {
				return fmt.Errorf("seed data: shipment at index %d references unknown hub %q", i+1, sh.Hub)
			}
			hub = id
		}

		if _, err := tx.Exec(`
		INSERT INTO shipments (status, pickup_lat, pickup_lon, delivery_lat, delivery_lon, hub_id)
		VALUES ($1, $2, $3, $4, $5, $6);
		`, status, sh.PickupLat, sh.PickupLon, sh.DeliveryLat, sh.DeliveryLon, hub); err != nil {
			return fmt.Errorf("seed data: insert shipment at index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed data: commit tx: %w", err)
	}

	return nil
}
