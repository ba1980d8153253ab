// Package adapters provides the index document sources for the indexseries feature.
package adapters

import (
	"os"
	"strconv"
	"time"

	"boncer_backend/internal/shared/retry"
)

// Config holds configuration for the index series sources and store.
type Config struct {
	SourcePath       string        // local JSON document path
	SourceURL        string        // remote JSON document URL (takes precedence over SourcePath)
	TTL              time.Duration // store snapshot TTL
	DocumentCacheTTL time.Duration // redis document cache TTL
	Timeout          time.Duration // HTTP request timeout
	Retry            retry.Policy
}

// LoadConfig loads index source configuration from environment variables.
func LoadConfig() Config {
	return Config{
		SourcePath:       getenv("INDEX_SOURCE_PATH", "./data/indices.json"),
		SourceURL:        os.Getenv("INDEX_SOURCE_URL"),
		TTL:              durationEnv("INDEX_TTL", 60*time.Second),
		DocumentCacheTTL: durationEnv("INDEX_DOCUMENT_CACHE_TTL", 60*time.Second),
		Timeout:          10 * time.Second,
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
