package ports

import (
	"context"
	"errors"
	"routenu-service/internal/domain"
)

// ErrRouteNotFound is returned when no route matches the requested id.
var ErrRouteNotFound = errors.New("route not found")

// Port: read access to stored route records.
type RouteRepository interface {
	// Retrieve a single route with its stops in order.
	GetRoute(ctx context.Context, routeID string) (*domain.Route, error)
	// Retrieve all routes owned by an account, stops included.
	ListRoutes(ctx context.Context, ownerID string) ([]*domain.Route, error)
}
