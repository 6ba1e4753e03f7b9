package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for k := range defaults {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "data/routenu.db", c.DSN())
	assert.Equal(t, 5*time.Minute, c.RouteCacheTTL)
	assert.Equal(t, time.Minute, c.PreferenceCacheTTL)
	assert.False(t, c.Production())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("DATABASE_URL", "postgres://localhost/routenu")
	t.Setenv("ROUTE_CACHE_TTL", "30s")

	c := Load()
	assert.True(t, c.Production())
	assert.Equal(t, "pgx", c.DBDriver)
	assert.Equal(t, "postgres://localhost/routenu", c.DSN())
	assert.Equal(t, 30*time.Second, c.RouteCacheTTL)
}

func TestGetFallback(t *testing.T) {
	t.Setenv("ROUTENU_TEST_KEY", "  ")
	assert.Equal(t, "fb", Get("ROUTENU_TEST_KEY", "fb"))

	t.Setenv("ROUTENU_TEST_KEY", "value")
	assert.Equal(t, "value", Get("ROUTENU_TEST_KEY", "fb"))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ROUTENU_FROM_FILE=yes\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ROUTENU_FROM_FILE") })

	assert.True(t, LoadEnv(path))
	assert.Equal(t, "yes", Get("ROUTENU_FROM_FILE", ""))
	assert.False(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}
