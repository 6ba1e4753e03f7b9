package services

import (
	"context"
	"errors"
	"fmt"
	"routenu-service/internal/domain"
	"routenu-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Upper bound on concurrent route loads for batch scheduling.
const scheduleFanOut = 5

// TimingInputFromRoute maps a stored route record onto the timing input.
// Waypoint durations become per-leg durations; the route-level duration is
// the total used for the even-share fallback.
func TimingInputFromRoute(route *domain.Route, explicit, accountDefault *int) RouteTimingInput {
	in := RouteTimingInput{
		DepartureTime:             route.DepartureTime,
		StopIDs:                   route.StopIDs(),
		ServiceTimeMinutes:        explicit,
		RouteServiceTimeMinutes:   route.ServiceTimeMinutes,
		AccountServiceTimeMinutes: accountDefault,
	}

	if route.Data != nil {
		if len(route.Data.Waypoints) > 0 {
			in.LegDurations = make([]float64, 0, len(route.Data.Waypoints))
			for _, w := range route.Data.Waypoints {
				in.LegDurations = append(in.LegDurations, LegSeconds(w.DurationSeconds))
			}
		}
		if route.Data.DurationSeconds != nil {
			total := *route.Data.DurationSeconds
			in.TotalDuration = &total
		}
	}

	return in
}

// RouteScheduler builds schedules for stored routes.
type RouteScheduler struct {
	Routes ports.RouteRepository
	Prefs  ports.PreferenceStore
	Logger *zap.Logger
}

func NewRouteScheduler(routes ports.RouteRepository, prefs ports.PreferenceStore, logger *zap.Logger) *RouteScheduler {
	return &RouteScheduler{Routes: routes, Prefs: prefs, Logger: logger}
}

// accountServiceTime looks up the owner's preference. A failing preference
// store only costs the account default, so the error is logged and dropped.
func (s *RouteScheduler) accountServiceTime(ctx context.Context, ownerID string) *int {
	if s.Prefs == nil || ownerID == "" {
		return nil
	}

	v, err := s.Prefs.ServiceTime(ctx, ownerID)
	if err != nil {
		s.Logger.Warn("service time preference lookup failed",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return nil
	}
	return v
}

// ScheduleRoute loads a route and computes its schedule. explicit overrides
// the route's and the account's service time when non-nil.
func (s *RouteScheduler) ScheduleRoute(ctx context.Context, routeID string, explicit *int) (*domain.Route, domain.Schedule, error) {
	route, err := s.Routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, domain.Schedule{}, fmt.Errorf("schedule route: %w", err)
	}

	in := TimingInputFromRoute(route, explicit, s.accountServiceTime(ctx, route.OwnerID))
	schedule := BuildSchedule(route.RouteID, in)

	if !schedule.TimesAvailable() {
		s.Logger.Info("route has no timing data",
			zap.String("route_id", route.RouteID),
			zap.Int("stops", len(route.Stops)),
		)
	}

	return route, schedule, nil
}

// ScheduleRoutes schedules several routes concurrently. Results keep the
// order of routeIDs; the first failure cancels the remaining loads.
func (s *RouteScheduler) ScheduleRoutes(ctx context.Context, routeIDs []string, explicit *int) ([]domain.Schedule, error) {
	if len(routeIDs) == 0 {
		return []domain.Schedule{}, nil
	}

	out := make([]domain.Schedule, len(routeIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scheduleFanOut)

	for i, id := range routeIDs {
		g.Go(func() error {
			_, schedule, err := s.ScheduleRoute(gctx, id, explicit)
			if err != nil {
				return fmt.Errorf("route %s: %w", id, err)
			}
			out[i] = schedule
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("schedule routes: %w", err)
	}

	return out, nil
}

// IsNotFound reports whether err means the route does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ports.ErrRouteNotFound)
}
