package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.False(t, cfg.StrictTransitions)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("STRICT_TRANSITIONS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("JWT_ACCESS_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.StrictTransitions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
}

func TestProdRequiresRealSecret(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DATABASE_URL", "postgres://rental@db/rental")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-long-random-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestInvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	assert.Error(t, err)
}
