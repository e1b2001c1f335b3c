package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "SUBMIT_RATE_LIMIT", "SUBMIT_RATE_WINDOW", "DB_MAX_OPEN_CONNS", "DB_QUERY_TIMEOUT", "API_TIMEOUT", "ALLOWED_ORIGINS", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8780", cfg.Port)
	assert.Equal(t, 30, cfg.SubmitRateLimit)
	assert.Equal(t, time.Minute, cfg.SubmitRateWindow)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 2*time.Minute, cfg.DBQueryTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("SUBMIT_RATE_LIMIT", "5")
	t.Setenv("SUBMIT_RATE_WINDOW", "10s")
	t.Setenv("ALLOWED_ORIGINS", "https://maps.example.org, ,https://ops.example.org")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_QUERY_TIMEOUT", "30s")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.SubmitRateLimit)
	assert.Equal(t, 10*time.Second, cfg.SubmitRateWindow)
	assert.Equal(t, []string{"https://maps.example.org", "https://ops.example.org"}, cfg.AllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 8, cfg.DBMaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.DBQueryTimeout)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUBMIT_RATE_LIMIT", "-3")
	t.Setenv("SUBMIT_RATE_WINDOW", "soon")
	t.Setenv("BUNDEBUG", "maybe")

	cfg := Load()
	assert.Equal(t, 30, cfg.SubmitRateLimit)
	assert.Equal(t, time.Minute, cfg.SubmitRateWindow)
	assert.False(t, cfg.BunDebug)
}
