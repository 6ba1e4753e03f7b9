package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS routes (
		route_id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		departure_time TEXT,
		service_time INTEGER,
		driver_name TEXT,
		vehicle_label TEXT,
		route_data %s
	);
	`, d.jsonType())

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		stop_id TEXT PRIMARY KEY,
		route_id TEXT NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		contact_name TEXT,
		phone TEXT,
		notes TEXT
	);
	`

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS user_settings (
		user_id TEXT PRIMARY KEY,
		service_time INTEGER
	);
	`

	createIndexQueries := []string{
		`CREATE INDEX IF NOT EXISTS idx_routes_owner ON routes(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route_position ON route_stops(route_id, position);`,
	}

	statements := append([]string{
		createRoutesQuery,
		createStopsQuery,
		createSettingsQuery,
	}, createIndexQueries...)

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
