// Package adapters provides the cashflow table and market quote sources for the boncer feature.
package adapters

import (
	"os"
	"strconv"
	"time"

	"boncer_backend/internal/shared/retry"
)

// Config holds configuration for the boncer sources.
type Config struct {
	CashflowPath  string        // CSV cashflow table path
	QuoteCacheTTL time.Duration // redis TTL of a cached quote
	Retry         retry.Policy
}

// LoadConfig loads boncer configuration from environment variables.
func LoadConfig() Config {
	return Config{
		CashflowPath:  getenv("BONCER_CASHFLOW_PATH", "./data/boncer_cashflows.csv"),
		QuoteCacheTTL: durationEnv("BONCER_QUOTE_CACHE_TTL", 30*time.Second),
		Retry: retry.Policy{
			Attempts: intEnv("SOURCE_RETRY_ATTEMPTS", retry.DefaultPolicy.Attempts),
			Backoff:  durationEnv("SOURCE_RETRY_BACKOFF", retry.DefaultPolicy.Backoff),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

func intEnv(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return def
}
