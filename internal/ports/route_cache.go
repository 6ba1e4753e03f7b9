package ports

import (
	"context"
	"routenu-service/internal/domain"
)

// Optional cache in front of a RouteRepository.
type RouteCache interface {
	// Return the cached route and whether it was present.
	Get(ctx context.Context, routeID string) (*domain.Route, bool, error)
	Put(ctx context.Context, route *domain.Route) error
	Invalidate(ctx context.Context, routeID string) error
}
