package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_PORT", "RATE_LIMIT_PER_MIN", "RATE_LIMIT_BACKEND", "SEED_STUDENTS", "SEED_DAYS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "5001", cfg.HTTPPort)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.Equal(t, "memory", cfg.RateLimitBackend)
	assert.Equal(t, 50, cfg.SeedStudents)
	assert.Equal(t, 30, cfg.SeedDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")

	cfg := Load()
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 5, cfg.RateLimitPerMin)
	assert.Equal(t, "redis", cfg.RateLimitBackend)
}

func TestIntEnvFallbackOnGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	cfg := Load()
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}
