package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings shared by the server and tools.
type Config struct {
	Env                string
	Port               string
	DBDriver           string
	DatabaseURL        string
	DBPath             string
	SeedPath           string
	RedisAddr          string
	RouteCacheTTL      time.Duration
	PreferenceCacheTTL time.Duration
}

var defaults = map[string]any{
	"APP_ENV":              "development",
	"PORT":                 "8080",
	"DB_DRIVER":            "sqlite",
	"DATABASE_URL":         "",
	"DB_PATH":              "data/routenu.db",
	"SEED_PATH":            "data/seeds/routes.json",
	"REDIS_ADDR":           "",
	"ROUTE_CACHE_TTL":      "5m",
	"PREFERENCE_CACHE_TTL": "1m",
}

// LoadEnv reads a .env file into the process environment when one exists.
// It reports whether a file was loaded.
func LoadEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return v
}

// Load resolves the configuration from the environment.
func Load() Config {
	v := newViper()

	return Config{
		Env:                strings.ToLower(v.GetString("APP_ENV")),
		Port:               v.GetString("PORT"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBPath:             v.GetString("DB_PATH"),
		SeedPath:           v.GetString("SEED_PATH"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RouteCacheTTL:      v.GetDuration("ROUTE_CACHE_TTL"),
		PreferenceCacheTTL: v.GetDuration("PREFERENCE_CACHE_TTL"),
	}
}

// Get returns an environment value or fallback when it is unset or empty.
func Get(key, fallback string) string {
	v := newViper()
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return fallback
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return c.DatabaseURL
}

func (c Config) Production() bool { return c.Env == "production" }
