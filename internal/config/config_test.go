package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sitedesk")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "movement-attachments", cfg.Minio.Bucket)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "a throwaway secret is generated when none is set")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sitedesk")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "configured-secret")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "configured-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestIntervalHelpers(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sitedesk")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "10m0s", cfg.SweepInterval().String())
	assert.Equal(t, "1h0m0s", cfg.BackfillInterval().String())
	assert.Equal(t, "24h0m0s", cfg.TokenTTL().String())
}
