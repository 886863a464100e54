package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 20, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, time.Hour, cfg.ResetToken.TTL)
	assert.Equal(t, "session", cfg.JWT.CookieName)
	assert.True(t, cfg.JWT.RevalidateRole)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("RESET_TOKEN_TTL", "10m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.0/8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, 10*time.Minute, cfg.ResetToken.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.Server.TrustedProxies)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Zero max requests", key: "RATE_LIMIT_MAX_REQUESTS", value: "0"},
		{name: "Unknown backend", key: "RATE_LIMIT_BACKEND", value: "memcached"},
		{name: "Negative TTL", key: "RESET_TOKEN_TTL", value: "-1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}
