package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32")
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RateLimitMax)
}

func TestDatabase_DSN(t *testing.T) {
	d := Database{Host: "db", Port: "5433", User: "app", Password: "pw", Name: "teamhub", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=teamhub sslmode=require", d.DSN())

	d.URL = "postgres://app@db/teamhub"
	assert.Equal(t, "postgres://app@db/teamhub", d.DSN())
}
