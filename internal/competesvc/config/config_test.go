package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_SERVICE_PORT", "TOKEN_TTL", "RATE_LIMIT", "UPLOAD_MAX_BYTES",
		"EXECUTOR_URL", "EXECUTOR_TIMEOUT", "TRIGGER_INTERVAL", "TRIGGER_WORKERS", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, int64(1<<20), cfg.UploadMaxBytes)
	assert.Equal(t, "http://localhost:3001", cfg.ExecutorUrl)
	assert.Equal(t, 30*time.Second, cfg.ExecutorTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TriggerInterval)
	assert.Equal(t, 4, cfg.TriggerWorkers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_SERVICE_PORT", "9000")
	t.Setenv("POSTGRES_URL", "postgres://u:p@db:5432/arena")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("RATE_LIMIT", "30")
	t.Setenv("TRIGGER_INTERVAL", "1h")
	t.Setenv("TRIGGER_WORKERS", "8")
	t.Setenv("REDIS_URL", "redis:6379")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/arena", cfg.DBUrl)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.Equal(t, time.Hour, cfg.TriggerInterval)
	assert.Equal(t, 8, cfg.TriggerWorkers)
	assert.Equal(t, "redis:6379", cfg.RedisUrl)
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("TRIGGER_WORKERS", "-2")
	t.Setenv("EXECUTOR_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 4, cfg.TriggerWorkers)
	assert.Equal(t, 30*time.Second, cfg.ExecutorTimeout)
}
