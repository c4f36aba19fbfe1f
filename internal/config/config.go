// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration knobs for the HTTP server, storage, broker,
// external clients and schedulers.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	// LogJSON switches the slog handler to JSON output.
	LogJSON bool

	// DatabaseURL empty means in-memory repositories.
	DatabaseURL string
	// KafkaBrokers empty means event publishing is disabled.
	KafkaBrokers []string

	ViaCepBaseURL      string
	ViaCepTimeout      time.Duration
	ViaCepMaxAttempts  int
	ViaCepBackoffBase  time.Duration
	ExchangeBaseURL    string
	ExchangeTimeout    time.Duration
	RateCacheTTL       time.Duration
	LateOrderThreshold time.Duration
	LateOrderInterval  time.Duration
	LowStockInterval   time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	cfg := Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    durenvs("SHUTDOWN_TIMEOUT", 15),
		LogJSON:            getenv("LOG_FORMAT", "") == "json",
		DatabaseURL:        getenv("DATABASE_URL", ""),
		ViaCepBaseURL:      getenv("VIACEP_BASE_URL", "https://viacep.com.br"),
		ViaCepTimeout:      durenvs("VIACEP_TIMEOUT", 10),
		ViaCepMaxAttempts:  atoienv("VIACEP_MAX_ATTEMPTS", 3),
		ViaCepBackoffBase:  durenvms("VIACEP_BACKOFF_MS", 500),
		ExchangeBaseURL:    getenv("EXCHANGE_BASE_URL", "https://api.exchangerate.host"),
		ExchangeTimeout:    durenvs("EXCHANGE_TIMEOUT", 10),
		RateCacheTTL:       durenvs("RATE_CACHE_TTL", 3600),
		LateOrderThreshold: durenvs("LATE_ORDER_THRESHOLD", 48*3600),
		LateOrderInterval:  durenvs("LATE_ORDER_INTERVAL", 3600),
		LowStockInterval:   durenvs("LOW_STOCK_INTERVAL", 24*3600),
	}

	if brokers := getenv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}
