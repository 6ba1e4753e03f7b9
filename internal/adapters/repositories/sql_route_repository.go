package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"routenu-service/internal/domain"
	"routenu-service/internal/platform/obs"
	"routenu-service/internal/ports"
	"strings"

	"go.uber.org/zap"
)

// SQL-backed implementation of the RouteRepository and PreferenceStore ports.
// The same queries serve SQLite and Postgres through Dialect.
type SQLRouteRepository struct {
	DB      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

func NewSQLRouteRepository(db *sql.DB, d Dialect, logger *zap.Logger) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db, dialect: d, logger: logger}
}

func NewPostgresRouteRepository(db *sql.DB, logger *zap.Logger) *SQLRouteRepository {
	return NewSQLRouteRepository(db, Postgres, logger)
}

func NewSqliteRouteRepository(db *sql.DB, logger *zap.Logger) *SQLRouteRepository {
	return NewSQLRouteRepository(db, Sqlite, logger)
}

const routeColumns = `
		route_id,
		owner_id,
		name,
		departure_time,
		service_time,
		driver_name,
		vehicle_label,
		route_data`

const stopColumns = `
		stop_id,
		route_id,
		position,
		name,
		address,
		contact_name,
		phone,
		notes`

type rowScanner interface {
	Scan(dest ...any) error
}

// Malformed route_data is logged and dropped; the route then has no timing.
func (s *SQLRouteRepository) scanRoute(row rowScanner) (*domain.Route, error) {
	var r domain.Route
	var departure, driver, vehicle, rawData sql.NullString
	var serviceTime sql.NullInt64
	err := row.Scan(
		&r.RouteID, &r.OwnerID, &r.Name, &departure, &serviceTime,
		&driver, &vehicle, &rawData,
	)
	if err != nil {
		return nil, err
	}

	r.DepartureTime = departure.String
	r.DriverName = driver.String
	r.VehicleLabel = vehicle.String
	if serviceTime.Valid {
		v := int(serviceTime.Int64)
		r.ServiceTimeMinutes = &v
	}

	if rawData.Valid && strings.TrimSpace(rawData.String) != "" {
		var data domain.RouteData
		if err := json.Unmarshal([]byte(rawData.String), &data); err != nil {
			s.logger.Warn("ignoring malformed route_data", zap.String("route_id", r.RouteID), zap.Error(err))
		} else {
			r.Data = &data
		}
	}
	r.Stops = []domain.Stop{}

	return &r, nil
}

func scanStop(row rowScanner) (string, domain.Stop, error) {
	var (
		routeID               string
		s                     domain.Stop
		contact, phone, notes sql.NullString
	)
	err := row.Scan(&s.StopID, &routeID, &s.Position, &s.Name, &s.Address, &contact, &phone, &notes)
	if err != nil {
		return "", domain.Stop{}, err
	}
	s.ContactName = contact.String
	s.Phone = phone.String
	s.Notes = notes.String
	return routeID, s, nil
}

// Return one route with its stops ordered by position.
func (s *SQLRouteRepository) GetRoute(ctx context.Context, routeID string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, s.logger, "routes.GetRoute")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := s.dialect.rebind(`
	SELECT` + routeColumns + `
	FROM routes
	WHERE route_id = ?;
	`)
	route, err := s.scanRoute(s.DB.QueryRowContext(ctx, query, routeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %s: %w", routeID, ports.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route: query routes table: %w", err)
	}

	stopsQuery := s.dialect.rebind(`
	SELECT` + stopColumns + `
	FROM route_stops
	WHERE route_id = ?
	ORDER BY position;
	`)
	rows, err := s.DB.QueryContext(ctx, stopsQuery, routeID)
	if err != nil {
		return nil, fmt.Errorf("get route: query route_stops table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		_, stop, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("get route: scan stop row: %w", err)
		}
		route.Stops = append(route.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route: stop row iteration: %w", err)
	}

	return route, nil
}

// Return every route owned by ownerID, ordered by name.
func (s *SQLRouteRepository) ListRoutes(ctx context.Context, ownerID string) (_ []*domain.Route, err error) {
	defer obs.Time(ctx, s.logger, "routes.ListRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := s.dialect.rebind(`
	SELECT` + routeColumns + `
	FROM routes
	WHERE owner_id = ?
	ORDER BY name, route_id;
	`)
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0, 16)
	byID := make(map[string]*domain.Route)
	for rows.Next() {
		r, err := s.scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		routes = append(routes, r)
		byID[r.RouteID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}
	if len(routes) == 0 {
		return routes, nil
	}

	stopsQuery := s.dialect.rebind(`
	SELECT` + stopColumns + `
	FROM route_stops
	WHERE route_id IN (SELECT route_id FROM routes WHERE owner_id = ?)
	ORDER BY route_id, position;
	`)
	stopRows, err := s.DB.QueryContext(ctx, stopsQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routes: query route_stops table: %w", err)
	}
	defer stopRows.Close()

	for stopRows.Next() {
		routeID, stop, err := scanStop(stopRows)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan stop row: %w", err)
		}
		if r, ok := byID[routeID]; ok {
			r.Stops = append(r.Stops, stop)
		}
	}
	if err := stopRows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: stop row iteration: %w", err)
	}

	return routes, nil
}

// Return the account-level service time, nil when the account has none.
func (s *SQLRouteRepository) ServiceTime(ctx context.Context, ownerID string) (_ *int, err error) {
	defer obs.Time(ctx, s.logger, "settings.ServiceTime")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := s.dialect.rebind(`
	SELECT service_time
	FROM user_settings
	WHERE user_id = ?;
	`)

	var v sql.NullInt64
	err = s.DB.QueryRowContext(ctx, query, ownerID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service time: query user_settings table: %w", err)
	}
	if !v.Valid {
		return nil, nil
	}

	minutes := int(v.Int64)
	return &minutes, nil
}
