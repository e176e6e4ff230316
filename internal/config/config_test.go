package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := New()
	assert.Equal(t, DefaultDataURL, cfg.DataURL)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheSweepInterval)
	require.NoError(t, cfg.Validate())

	cfg = New(WithDataURL("http://localhost/feed"), WithRetries(5, time.Millisecond), WithCacheTTL(time.Second))
	assert.Equal(t, "http://localhost/feed", cfg.DataURL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, time.Second, cfg.CacheTTL)
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
		assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PRIX_DATA_URL", "http://example.test/zip")
		t.Setenv("PRIX_REQUEST_TIMEOUT", "5s")
		t.Setenv("PRIX_MAX_RETRIES", "7")
		t.Setenv("PRIX_REFRESH_INTERVAL", "15m")
		t.Setenv("PRIX_LOG_LEVEL", "debug")
		t.Setenv("PRIX_ENV", "development")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://example.test/zip", cfg.DataURL)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 7, cfg.MaxRetries)
		assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
		assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
		assert.Equal(t, "development", cfg.Environment)
	})

	t.Run("invalid log level falls back to info", func(t *testing.T) {
		t.Setenv("PRIX_LOG_LEVEL", "chatty")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		t.Setenv("PRIX_MAX_RETRIES", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadDurations(t *testing.T) {
	t.Run("bare number has no unit", func(t *testing.T) {
		t.Setenv("PRIX_REQUEST_TIMEOUT", "60")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PRIX_REQUEST_TIMEOUT")
		assert.Contains(t, err.Error(), "no unit")
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		t.Setenv("PRIX_CACHE_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("units are honoured", func(t *testing.T) {
		t.Setenv("PRIX_REQUEST_TIMEOUT", "90s")
		t.Setenv("PRIX_RETRY_DELAY", "0s")
		t.Setenv("PRIX_CACHE_SWEEP_INTERVAL", "1m30s")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
		assert.Equal(t, time.Duration(0), cfg.RetryDelay)
		assert.Equal(t, 90*time.Second, cfg.CacheSweepInterval)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.DataURL = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -time.Second }},
		{"zero refresh interval", func(c *Config) { c.RefreshInterval = 0 }},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }},
		{"zero sweep interval", func(c *Config) { c.CacheSweepInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
