package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/platform/obs"
	"shipment-route-service/internal/ports"
)

// querier is satisfied by both *sql.DB and *sql.Tx, letting every query
// method run either directly or transaction-scoped.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Postgres-backed implementation of the Store port.
type PostgresStore struct {
	db *sql.DB // nil on transaction-scoped instances
	q  querier
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

// InTx runs fn against a transaction-scoped copy of the store. A nested
// call on an already scoped store reuses the open transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(ports.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&PostgresStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit tx: %w", err)
	}

	return nil
}

func (s *PostgresStore) ListActiveHubs(ctx context.Context) (_ []*domain.Hub, err error) {
	defer obs.Time(ctx, "store.ListActiveHubs")(&err)

	query := `
	SELECT hub_id, name, address, lat, lon, active
	FROM hubs
	WHERE active
	ORDER BY hub_id;
	`
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active hubs: query hubs table: %w", err)
	}
	defer rows.Close()

	hubs := make([]*domain.Hub, 0, 16)
	for rows.Next() {
		var h domain.Hub
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&h.HubID, &h.Name, &h.Address, &lat, &lon, &h.Active); err != nil {
			return nil, fmt.Errorf("list active hubs: scan row: %w", err)
		}
		if lat.Valid && lon.Valid {
			h.Location = &domain.Point{Lat: lat.Float64, Lon: lon.Float64}
		}
		hubs = append(hubs, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active hubs: row iteration: %w", err)
	}

	return hubs, nil
}

func (s *PostgresStore) ListAvailableRiders(ctx context.Context, hubID *int64) (_ []*domain.Rider, err error) {
	defer obs.Time(ctx, "store.ListAvailableRiders")(&err)

	query := `
	SELECT r.rider_id, r.user_id, r.hub_id, r.online
	FROM riders r
	WHERE r.online
		AND ($1::bigint IS NULL OR r.hub_id = $1)
		AND NOT EXISTS (
			SELECT 1 FROM routes rt
			WHERE rt.rider_id = r.rider_id AND rt.status = 'active'
		)
	ORDER BY r.rider_id;
	`
	rows, err := s.q.QueryContext(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("list available riders: query riders table: %w", err)
	}
	defer rows.Close()

	riders := make([]*domain.Rider, 0, 32)
	for rows.Next() {
		r, err := scanRider(rows)
		if err != nil {
			return nil, fmt.Errorf("list available riders: %w", err)
		}
		riders = append(riders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available riders: row iteration: %w", err)
	}

	return riders, nil
}

func (s *PostgresStore) GetRider(ctx context.Context, riderID int64) (*domain.Rider, error) {
	query := `
	SELECT rider_id, user_id, hub_id, online
	FROM riders
	WHERE rider_id = $1;
	`
	row := s.q.QueryRowContext(ctx, query, riderID)

	var r domain.Rider
	var hub sql.NullInt64
	err := row.Scan(&r.RiderID, &r.UserID, &hub, &r.Online)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rider %d: %w", riderID, err)
	}
	if hub.Valid {
		r.HubID = &hub.Int64
	}

	return &r, nil
}

func (s *PostgresStore) ListShipmentsWithStops(
	ctx context.Context,
	hubID *int64,
	statuses []domain.ShipmentStatus,
) (_ []*domain.Shipment, err error) {
	defer obs.Time(ctx, "store.ListShipmentsWithStops")(&err)

	if len(statuses) == 0 {
		return []*domain.Shipment{}, nil
	}

	statusArgs := make([]string, 0, len(statuses))
	for _, st := range statuses {
		statusArgs = append(statusArgs, string(st))
	}

	query := `
	SELECT shipment_id, status, pickup_lat, pickup_lon, delivery_lat, delivery_lon, rider_id, hub_id
	FROM shipments
	WHERE status = ANY($1::text[])
		AND ($2::bigint IS NULL OR hub_id = $2)
	ORDER BY shipment_id;
	`
	rows, err := s.q.QueryContext(ctx, query, statusArgs, hubID)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query shipments table: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, 64)
	byID := make(map[int64]*domain.Shipment, 64)
	ids := make([]int64, 0, 64)

	for rows.Next() {
		var sh domain.Shipment
		var pLat, pLon, dLat, dLon sql.NullFloat64
		var rider, hub sql.NullInt64
		if err := rows.Scan(&sh.ShipmentID, &sh.Status, &pLat, &pLon, &dLat, &dLon, &rider, &hub); err != nil {
			return nil, fmt.Errorf("list shipments: scan row: %w", err)
		}
		if pLat.Valid && pLon.Valid {
			sh.Pickup = &domain.Point{Lat: pLat.Float64, Lon: pLon.Float64}
		}
		if dLat.Valid && dLon.Valid {
			sh.Delivery = &domain.Point{Lat: dLat.Float64, Lon: dLon.Float64}
		}
		if rider.Valid {
			sh.RiderID = &rider.Int64
		}
		if hub.Valid {
			sh.HubID = &hub.Int64
		}

		shipments = append(shipments, &sh)
		byID[sh.ShipmentID] = &sh
		ids = append(ids, sh.ShipmentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	if len(ids) == 0 {
		return shipments, nil
	}

	if err := s.loadStopRefs(ctx, byID, ids); err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	return shipments, nil
}

// loadStopRefs attaches each shipment's full route-stop history, including
// stale entries from completed or abandoned routes. Filtering live claims
// from dead history is the caller's job.
func (s *PostgresStore) loadStopRefs(ctx context.Context, byID map[int64]*domain.Shipment, ids []int64) error {
	query := `
	SELECT st.shipment_id, st.status, rt.route_id, rt.status, rt.rider_id
	FROM route_stops st
	JOIN routes rt ON rt.route_id = st.route_id
	WHERE st.shipment_id = ANY($1::bigint[]);
	`
	rows, err := s.q.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query route_stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipmentID int64
		var ref domain.StopRef
		var rider sql.NullInt64
		if err := rows.Scan(&shipmentID, &ref.StopStatus, &ref.RouteID, &ref.RouteStatus, &rider); err != nil {
			return fmt.Errorf("scan stop ref: %w", err)
		}
		if rider.Valid {
			ref.RouteRiderID = &rider.Int64
		}

		if sh, ok := byID[shipmentID]; ok {
			sh.StopRefs = append(sh.StopRefs, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("stop ref iteration: %w", err)
	}

	return nil
}

func (s *PostgresStore) CreateRoute(ctx context.Context, route *domain.Route) (err error) {
	defer obs.Time(ctx, "store.CreateRoute")(&err)

	query := `
	INSERT INTO routes (name, hub_id, rider_id, status, distance_km, duration_min, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING route_id;
	`
	err = s.q.QueryRowContext(
		ctx, query,
		route.Name, route.HubID, route.RiderID, string(route.Status),
		route.DistanceKm, route.DurationMin, route.CreatedAt,
	).Scan(&route.RouteID)
	if err != nil {
		return fmt.Errorf("create route: insert route: %w", err)
	}

	if err := s.insertStops(ctx, route.RouteID, route.Stops); err != nil {
		return fmt.Errorf("create route: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	query := `
	SELECT route_id, name, hub_id, rider_id, status, distance_km, duration_min, created_at
	FROM routes
	WHERE route_id = $1;
	`
	row := s.q.QueryRowContext(ctx, query, routeID)

	var r domain.Route
	var rider sql.NullInt64
	err := row.Scan(&r.RouteID, &r.Name, &r.HubID, &rider, &r.Status, &r.DistanceKm, &r.DurationMin, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route %d: %w", routeID, err)
	}
	if rider.Valid {
		r.RiderID = &rider.Int64
	}

	stopsQuery := `
	SELECT stop_id, route_id, stop_order, stop_type, shipment_id, lat, lon, status
	FROM route_stops
	WHERE route_id = $1
	ORDER BY stop_order;
	`
	rows, err := s.q.QueryContext(ctx, stopsQuery, routeID)
	if err != nil {
		return nil, fmt.Errorf("get route %d: query stops: %w", routeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var st domain.RouteStop
		var shipment sql.NullInt64
		if err := rows.Scan(&st.StopID, &st.RouteID, &st.StopOrder, &st.Type, &shipment, &st.Location.Lat, &st.Location.Lon, &st.Status); err != nil {
			return nil, fmt.Errorf("get route %d: scan stop: %w", routeID, err)
		}
		if shipment.Valid {
			st.ShipmentID = &shipment.Int64
		}
		r.Stops = append(r.Stops, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route %d: stop iteration: %w", routeID, err)
	}

	return &r, nil
}

func (s *PostgresStore) UpdateRoute(ctx context.Context, route *domain.Route) error {
	query := `
	UPDATE routes
	SET name = $2, hub_id = $3, rider_id = $4, status = $5, distance_km = $6, duration_min = $7
	WHERE route_id = $1;
	`
	res, err := s.q.ExecContext(
		ctx, query,
		route.RouteID, route.Name, route.HubID, route.RiderID,
		string(route.Status), route.DistanceKm, route.DurationMin,
	)
	if err != nil {
		return fmt.Errorf("update route %d: %w", route.RouteID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route %d: rows affected: %w", route.RouteID, err)
	}
	if affected == 0 {
		return ports.ErrNotFound
	}

	return nil
}

// ReplaceStops deletes and fully recreates a route's stops. Wholesale
// replacement keeps update semantics trivial at these batch sizes.
func (s *PostgresStore) ReplaceStops(ctx context.Context, routeID int64, stops []*domain.RouteStop) (err error) {
	defer obs.Time(ctx, "store.ReplaceStops")(&err)

	if _, err := s.q.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = $1;`, routeID); err != nil {
		return fmt.Errorf("replace stops: delete stops of route %d: %w", routeID, err)
	}

	if err := s.insertStops(ctx, routeID, stops); err != nil {
		return fmt.Errorf("replace stops: %w", err)
	}

	return nil
}

func (s *PostgresStore) insertStops(ctx context.Context, routeID int64, stops []*domain.RouteStop) error {
	if len(stops) == 0 {
		return nil
	}

	stmt, err := s.q.PrepareContext(ctx, `
	INSERT INTO route_stops (route_id, stop_order, stop_type, shipment_id, lat, lon, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING stop_id;
	`)
	if err != nil {
		return fmt.Errorf("prepare stop insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stops {
		st.RouteID = routeID
		err := stmt.QueryRowContext(
			ctx,
			routeID, st.StopOrder, string(st.Type), st.ShipmentID,
			st.Location.Lat, st.Location.Lon, string(st.Status),
		).Scan(&st.StopID)
		if err != nil {
			return fmt.Errorf("insert stop order=%d: %w", st.StopOrder, err)
		}
	}

	return nil
}

func (s *PostgresStore) AssignShipments(ctx context.Context, shipmentIDs []int64, riderID int64) (err error) {
	defer obs.Time(ctx, "store.AssignShipments")(&err)

	if len(shipmentIDs) == 0 {
		return nil
	}

	query := `
	UPDATE shipments
	SET status = 'assigned', rider_id = $1
	WHERE shipment_id = ANY($2::bigint[]);
	`
	if _, err := s.q.ExecContext(ctx, query, riderID, shipmentIDs); err != nil {
		return fmt.Errorf("assign shipments to rider %d: %w", riderID, err)
	}

	return nil
}

func scanRider(rows *sql.Rows) (*domain.Rider, error) {
	var r domain.Rider
	var hub sql.NullInt64
	if err := rows.Scan(&r.RiderID, &r.UserID, &hub, &r.Online); err != nil {
		return nil, fmt.Errorf("scan rider: %w", err)
	}
	if hub.Valid {
		r.HubID = &hub.Int64
	}
	return &r, nil
}
