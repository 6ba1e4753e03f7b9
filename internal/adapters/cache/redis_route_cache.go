package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"routenu-service/internal/domain"
	"routenu-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const routeKeyPrefix = "routenu:route:"

// RedisRouteCache stores route records as JSON values with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl, logger: logger}
}

func routeKey(routeID string) string {
	return routeKeyPrefix + routeID
}

// Fetch a cached route. A miss is not an error.
func (c *RedisRouteCache) Get(ctx context.Context, routeID string) (_ *domain.Route, _ bool, err error) {
	defer obs.Time(ctx, c.logger, "route.cache.Get")(&err)

	if c.client == nil {
		return nil, false, errors.New("route cache: client is nil")
	}
	if strings.TrimSpace(routeID) == "" {
		return nil, false, errors.New("get route cache: route id must not be empty")
	}

	b, err := c.client.Get(ctx, routeKey(routeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}

	var r domain.Route
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode %s: %w", routeID, err)
	}

	return &r, true, nil
}

// Store a route under its id.
func (c *RedisRouteCache) Put(ctx context.Context, route *domain.Route) (err error) {
	defer obs.Time(ctx, c.logger, "route.cache.Put")(&err)

	if c.client == nil {
		return errors.New("route cache: client is nil")
	}
	if route == nil || strings.TrimSpace(route.RouteID) == "" {
		return errors.New("put route cache: route id must not be empty")
	}

	b, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("put route cache: encode %s: %w", route.RouteID, err)
	}

	if err := c.client.Set(ctx, routeKey(route.RouteID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}

	return nil
}

func (c *RedisRouteCache) Invalidate(ctx context.Context, routeID string) (err error) {
	defer obs.Time(ctx, c.logger, "route.cache.Invalidate")(&err)

	if c.client == nil {
		return errors.New("route cache: client is nil")
	}

	if err := c.client.Del(ctx, routeKey(routeID)).Err(); err != nil {
		return fmt.Errorf("invalidate route cache: %w", err)
	}

	return nil
}
