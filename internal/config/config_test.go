package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("INTAKE_RATE_LIMIT", "")
	t.Setenv("BOOTSTRAP_ADMIN_HANDLE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.Intake.RateLimit)
	assert.Equal(t, 24*time.Hour, cfg.Intake.Window())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INTAKE_RATE_LIMIT", "5")
	t.Setenv("INTAKE_RATE_WINDOW_MINUTES", "60")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BOOTSTRAP_ADMIN_HANDLE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Intake.RateLimit)
	assert.Equal(t, time.Hour, cfg.Intake.Window())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadRejectsBootstrapWithoutPassword(t *testing.T) {
	t.Setenv("BOOTSTRAP_ADMIN_HANDLE", "root")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	require.Error(t, err)
}
