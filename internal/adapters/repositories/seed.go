package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"routenu-service/internal/domain"
	"strings"

	"github.com/google/uuid"
)

type StopSeed struct {
	StopID      string `json:"stop_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
}

type RouteSeed struct {
	RouteID       string            `json:"route_id"`
	OwnerID       string            `json:"owner_id"`
	Name          string            `json:"name"`
	DepartureTime string            `json:"departure_time"`
	ServiceTime   *int              `json:"service_time"`
	DriverName    string            `json:"driver_name"`
	VehicleLabel  string            `json:"vehicle_label"`
	RouteData     *domain.RouteData `json:"route_data"`
	Stops         []StopSeed        `json:"stops"`
}

type UserSettingSeed struct {
	UserID      string `json:"user_id"`
	ServiceTime *int   `json:"service_time"`
}

type Seed struct {
	Routes       []RouteSeed       `json:"routes"`
	UserSettings []UserSettingSeed `json:"user_settings"`
}

// Validate the seed and fill in missing identifiers.
func (s *Seed) normalize() error {
	for i := range s.Routes {
		r := &s.Routes[i]
		if r.RouteID == "" {
			r.RouteID = uuid.NewString()
		} else if _, err := uuid.Parse(r.RouteID); err != nil {
			return fmt.Errorf("route at index %d: invalid route_id %q: %w", i+1, r.RouteID, err)
		}

		if _, err := uuid.Parse(r.OwnerID); err != nil {
			return fmt.Errorf("route at index %d: invalid owner_id %q: %w", i+1, r.OwnerID, err)
		}

		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return fmt.Errorf("route at index %d: name cannot be empty", i+1)
		}

		for j := range r.Stops {
			st := &r.Stops[j]
			if st.StopID == "" {
				st.StopID = uuid.NewString()
			}
			st.Address = strings.TrimSpace(st.Address)
			if st.Address == "" {
				return fmt.Errorf("route %q stop at index %d: address cannot be empty", r.Name, j+1)
			}
			if strings.TrimSpace(st.Name) == "" {
				st.Name = st.Address
			}
		}
	}

	for i, u := range s.UserSettings {
		if _, err := uuid.Parse(u.UserID); err != nil {
			return fmt.Errorf("user setting at index %d: invalid user_id %q: %w", i+1, u.UserID, err)
		}
	}

	return nil
}

// Populate the database with routes and settings from a JSON file.
// It returns the ids of the routes written.
func SeedFromJSON(ctx context.Context, db *sql.DB, d Dialect, jsonPath string) ([]string, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("seed routes: parse json: %w", err)
	}

	if err := ApplySeed(ctx, db, d, &seed); err != nil {
		return nil, fmt.Errorf("seed routes: %w", err)
	}

	return seed.RouteIDs(), nil
}

// RouteIDs lists the route ids in seed order. Ids generated by ApplySeed
// are included once it has run.
func (s *Seed) RouteIDs() []string {
	ids := make([]string, 0, len(s.Routes))
	for _, r := range s.Routes {
		ids = append(ids, r.RouteID)
	}
	return ids
}

// ApplySeed upserts the seed contents in a single transaction.
func ApplySeed(ctx context.Context, db *sql.DB, d Dialect, seed *Seed) error {
	if err := seed.normalize(); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	routeStmt, err := tx.PrepareContext(ctx, d.rebind(`
	INSERT INTO routes (
		route_id,
		owner_id,
		name,
		departure_time,
		service_time,
		driver_name,
		vehicle_label,
		route_data
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (route_id) DO UPDATE
	SET owner_id = excluded.owner_id,
		name = excluded.name,
		departure_time = excluded.departure_time,
		service_time = excluded.service_time,
		driver_name = excluded.driver_name,
		vehicle_label = excluded.vehicle_label,
		route_data = excluded.route_data;
	`))
	if err != nil {
		return fmt.Errorf("apply seed: prepare route insert: %w", err)
	}
	defer routeStmt.Close()

	clearStmt, err := tx.PrepareContext(ctx, d.rebind(`DELETE FROM route_stops WHERE route_id = ?;`))
	if err != nil {
		return fmt.Errorf("apply seed: prepare stop delete: %w", err)
	}
	defer clearStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, d.rebind(`
	INSERT INTO route_stops (
		stop_id,
		route_id,
		position,
		name,
		address,
		contact_name,
		phone,
		notes
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("apply seed: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for _, r := range seed.Routes {
		var routeData any
		if r.RouteData != nil {
			b, err := json.Marshal(r.RouteData)
			if err != nil {
				return fmt.Errorf("apply seed: encode route_data for %q: %w", r.RouteID, err)
			}
			routeData = string(b)
		}

		var serviceTime any
		if r.ServiceTime != nil {
			serviceTime = *r.ServiceTime
		}

		if _, err := routeStmt.ExecContext(ctx,
			r.RouteID, r.OwnerID, r.Name, nullIfEmpty(r.DepartureTime), serviceTime,
			nullIfEmpty(r.DriverName), nullIfEmpty(r.VehicleLabel), routeData,
		); err != nil {
			return fmt.Errorf("apply seed: insert route_id=%s: %w", r.RouteID, err)
		}

		if _, err := clearStmt.ExecContext(ctx, r.RouteID); err != nil {
			return fmt.Errorf("apply seed: clear stops route_id=%s: %w", r.RouteID, err)
		}

		for pos, st := range r.Stops {
			if _, err := stopStmt.ExecContext(ctx,
				st.StopID, r.RouteID, pos, st.Name, st.Address,
				nullIfEmpty(st.ContactName), nullIfEmpty(st.Phone), nullIfEmpty(st.Notes),
			); err != nil {
				return fmt.Errorf("apply seed: insert stop_id=%s: %w", st.StopID, err)
			}
		}
	}

	settingStmt, err := tx.PrepareContext(ctx, d.rebind(`
	INSERT INTO user_settings (user_id, service_time)
	VALUES (?, ?)
	ON CONFLICT (user_id) DO UPDATE
	SET service_time = excluded.service_time;
	`))
	if err != nil {
		return fmt.Errorf("apply seed: prepare settings insert: %w", err)
	}
	defer settingStmt.Close()

	for _, u := range seed.UserSettings {
		var serviceTime any
		if u.ServiceTime != nil {
			serviceTime = *u.ServiceTime
		}
		if _, err := settingStmt.ExecContext(ctx, u.UserID, serviceTime); err != nil {
			return fmt.Errorf("apply seed: insert user_id=%s: %w", u.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply seed: commit tx: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
