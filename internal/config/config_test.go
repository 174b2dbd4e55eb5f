// internal/config/config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "gemini-3-flash-preview", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "spotshare", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 2*time.Hour, cfg.Listing.BookingDuration)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("AI_REQUEST_TIMEOUT", "5s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SERVER_SECURE_COOKIES", "true")
	t.Setenv("LOCATION_SEED", "1234")
	t.Setenv("BOOKING_DURATION", "3h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "fallback-key", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.True(t, cfg.Server.SecureCookies)
	assert.Equal(t, int64(1234), cfg.Listing.LocationSeed)
	assert.Equal(t, 3*time.Hour, cfg.Listing.BookingDuration)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("AI_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Environment: "production",
		Server:      ServerConfig{Port: 8080},
		AI:          AIConfig{APIKey: "k", Model: "m"},
		Listing:     ListingConfig{BookingDuration: time.Hour},
	}
	require.NoError(t, validate(valid))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"no booking duration", func(c *Config) { c.Listing.BookingDuration = 0 }},
		{"no model", func(c *Config) { c.AI.Model = "" }},
		{"no key outside development", func(c *Config) { c.AI.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, validate(cfg))
		})
	}

	dev := valid
	dev.Environment = "development"
	dev.AI.APIKey = ""
	assert.NoError(t, validate(dev))
}
