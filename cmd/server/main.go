package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"routenu-service/internal/adapters/cache"
	"routenu-service/internal/adapters/repositories"
	"routenu-service/internal/api"
	"routenu-service/internal/config"
	"routenu-service/internal/platform/db"
	"routenu-service/internal/platform/obs"
	"routenu-service/internal/ports"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, Redis, in-process caches) behind ports and starts the HTTP server.
func main() {
	envLoaded := config.LoadEnv()
	cfg := config.Load()

	logger, err := obs.NewLogger(cfg.Production())
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if !envLoaded {
		logger.Info("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if strings.TrimSpace(cfg.DSN()) == "" {
		return errors.New("DATABASE_URL is required when DB_DRIVER is not sqlite")
	}

	driver := cfg.DBDriver
	if driver == "postgres" {
		driver = "pgx"
	}

	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN()), 0o750); err != nil {
			return fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	conn, err := db.Open(ctx, driver, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	dialect := repositories.DialectForDriver(driver)
	// Local SQLite runs initialize and seed themselves; Postgres uses cmd/dbtool.
	var seeded []string
	if dialect == repositories.Sqlite {
		if seeded, err = initAndSeed(ctx, conn, dialect, cfg.SeedPath, logger); err != nil {
			return err
		}
	}

	store := repositories.NewSQLRouteRepository(conn, dialect, logger)

	var routes ports.RouteRepository = store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		routeCache := cache.NewRedisRouteCache(client, cfg.RouteCacheTTL, logger)
		if err := cache.InvalidateRoutes(ctx, routeCache, seeded); err != nil {
			logger.Warn("route cache invalidation failed", zap.Error(err))
		}
		routes = cache.NewCachedRouteRepository(store, routeCache, logger)
		logger.Info("route cache enabled", zap.String("redis_addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RouteCacheTTL))
	}
	prefs := cache.NewPreferenceCache(store, cfg.PreferenceCacheTTL)

	router := api.NewRouter(routes, prefs, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("db_driver", driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// initAndSeed returns the ids of the seeded routes so stale cache entries
// can be dropped.
func initAndSeed(ctx context.Context, conn *sql.DB, d repositories.Dialect, seedPath string, logger *zap.Logger) ([]string, error) {
	if err := repositories.InitSchema(ctx, conn, d); err != nil {
		return nil, fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		logger.Info("no seed file, skipping", zap.String("seed_path", seedPath))
		return nil, nil
	}

	routeIDs, err := repositories.SeedFromJSON(ctx, conn, d, seedPath)
	if err != nil {
		return nil, fmt.Errorf("init and seed: %w", err)
	}

	return routeIDs, nil
}
