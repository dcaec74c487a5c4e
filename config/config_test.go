package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, DefaultAPIBaseURL, cfg.Upstream.BaseURL)
		assert.True(t, cfg.Upstream.PublicInventory)
		assert.Zero(t, cfg.Upstream.Timeout)
		assert.Equal(t, "memory", cfg.Session.Store)
		assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
		assert.Equal(t, 24*time.Hour, cfg.Session.TokenMaxAge)
		assert.Equal(t, 5, cfg.Session.ReconfirmEvery)
		assert.False(t, cfg.Auth.Enabled)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, 90*24*time.Hour, cfg.Database.SubmissionsTTL)
		assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Pretty)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("API_BASE_URL", "http://inventory.local/")
		_ = os.Setenv("INVENTORY_PUBLIC", "false")
		_ = os.Setenv("UPSTREAM_TIMEOUT", "10s")
		_ = os.Setenv("SESSION_STORE", "REDIS")
		_ = os.Setenv("SESSION_TTL", "30m")
		_ = os.Setenv("RECONFIRM_EVERY", "3")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("API_KEYS", "key1,key2")
		_ = os.Setenv("LOG_LEVEL", "debug")
		_ = os.Setenv("LOG_PRETTY", "true")
		_ = os.Setenv("SUBMISSIONS_TTL", "0s")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, "http://inventory.local", cfg.Upstream.BaseURL)
		assert.False(t, cfg.Upstream.PublicInventory)
		assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, "redis", cfg.Session.Store)
		assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
		assert.Equal(t, 3, cfg.Session.ReconfirmEvery)
		assert.True(t, cfg.Auth.Enabled)
		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
		assert.Zero(t, cfg.Database.SubmissionsTTL)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		_ = os.Setenv("UPSTREAM_TIMEOUT", "soon")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Zero(t, cfg.Upstream.Timeout)
	})

	t.Run("parses API keys with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , key2 , key3 ")
		defer os.Clearenv()

		cfg := Load()

		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.True(t, cfg.Auth.APIKeys["key3"])
	})

	t.Run("returns nil for empty API keys", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Auth.APIKeys)
	})

	t.Run("appends CORS origins to defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://prestamos.example.edu, ")
		defer os.Clearenv()

		cfg := Load()

		assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:5173")
		assert.Contains(t, cfg.Server.CORSOrigins, "https://prestamos.example.edu")
		assert.Len(t, cfg.Server.CORSOrigins, 3)
	})
}
