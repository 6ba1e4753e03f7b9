package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"routenu-service/internal/adapters/cache"
	"routenu-service/internal/adapters/repositories"
	"routenu-service/internal/config"
	"routenu-service/internal/platform/db"
	"routenu-service/internal/platform/obs"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func main() {
	skipSeed := flag.Bool("schema-only", false, "create tables without loading the seed file")
	flag.Parse()

	envLoaded := config.LoadEnv()
	cfg := config.Load()

	logger, err := obs.NewLogger(cfg.Production())
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !envLoaded {
		logger.Info("No .env file found (using environment variables)")
	}

	driver := cfg.DBDriver
	if driver == "postgres" {
		driver = "pgx"
	}
	if strings.TrimSpace(cfg.DSN()) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, driver, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", cfg.SeedPath)
	routeIDs := initAndSeed(ctx, conn, repositories.DialectForDriver(driver), seedPath, *skipSeed, logger)

	if cfg.RedisAddr != "" && len(routeIDs) > 0 {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		routeCache := cache.NewRedisRouteCache(client, cfg.RouteCacheTTL, logger)
		if err := cache.InvalidateRoutes(ctx, routeCache, routeIDs); err != nil {
			logger.Warn("route cache invalidation failed", zap.Error(err))
		} else {
			logger.Info("Route cache cleared.", zap.Int("routes", len(routeIDs)))
		}
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, d repositories.Dialect, seedPath string, skipSeed bool, logger *zap.Logger) []string {
	logger.Info("Initializing database schema...", zap.Stringer("dialect", d))
	if err := repositories.InitSchema(ctx, conn, d); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("Schema ready.")

	if skipSeed {
		return nil
	}

	logger.Info("Seeding database...", zap.String("seed_path", seedPath))
	routeIDs, err := repositories.SeedFromJSON(ctx, conn, d, seedPath)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("Seeding complete.", zap.Int("routes", len(routeIDs)))
	return routeIDs
}
