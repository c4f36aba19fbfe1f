package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.ViaCepMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ViaCepBackoffBase)
	assert.Equal(t, time.Hour, cfg.RateCacheTTL)
	assert.Equal(t, 48*time.Hour, cfg.LateOrderThreshold)
	assert.Equal(t, 24*time.Hour, cfg.LowStockInterval)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("VIACEP_MAX_ATTEMPTS", "5")
	t.Setenv("RATE_CACHE_TTL", "60")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.ViaCepMaxAttempts)
	assert.Equal(t, time.Minute, cfg.RateCacheTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_BadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("VIACEP_MAX_ATTEMPTS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 3, cfg.ViaCepMaxAttempts)
}
