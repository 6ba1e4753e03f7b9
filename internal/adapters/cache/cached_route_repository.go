package cache

import (
	"context"
	"errors"
	"routenu-service/internal/domain"
	"routenu-service/internal/ports"

	"go.uber.org/zap"
)

// CachedRouteRepository is a read-through cache over a RouteRepository.
// Cache failures degrade to the underlying repository and are only logged.
type CachedRouteRepository struct {
	next   ports.RouteRepository
	cache  ports.RouteCache
	logger *zap.Logger
}

func NewCachedRouteRepository(next ports.RouteRepository, cache ports.RouteCache, logger *zap.Logger) *CachedRouteRepository {
	return &CachedRouteRepository{next: next, cache: cache, logger: logger}
}

func (c *CachedRouteRepository) GetRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	r, ok, err := c.cache.Get(ctx, routeID)
	if err != nil {
		c.logger.Warn("route cache read failed", zap.String("route_id", routeID), zap.Error(err))
	}
	if ok {
		return r, nil
	}

	r, err = c.next.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, r); err != nil {
		c.logger.Warn("route cache write failed", zap.String("route_id", routeID), zap.Error(err))
	}

	return r, nil
}

// Listings are not cached; they also warm the per-route entries.
func (c *CachedRouteRepository) ListRoutes(ctx context.Context, ownerID string) ([]*domain.Route, error) {
	routes, err := c.next.ListRoutes(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for _, r := range routes {
		if err := c.cache.Put(ctx, r); err != nil {
			c.logger.Warn("route cache write failed", zap.String("route_id", r.RouteID), zap.Error(err))
			break
		}
	}

	return routes, nil
}

// InvalidateRoutes drops cached copies of routes whose stored record changed.
func InvalidateRoutes(ctx context.Context, c ports.RouteCache, routeIDs []string) error {
	var errs []error
	for _, id := range routeIDs {
		if err := c.Invalidate(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
