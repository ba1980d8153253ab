// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"boncer_backend/internal/feature/indexseries/adapters"
	"boncer_backend/internal/feature/indexseries/usecase"
	"boncer_backend/internal/platform/calendar"
	infrahttp "boncer_backend/internal/platform/http"
)

// NewIndexSource picks the HTTP source when INDEX_SOURCE_URL is set and the
// local file otherwise. If Redis is available, the source is wrapped with the
// shared document cache.
func NewIndexSource(cfg adapters.Config, rdb *redis.Client) usecase.SeriesSource {
	var src usecase.SeriesSource
	if cfg.SourceURL != "" {
		src = adapters.NewHTTPSource(cfg.SourceURL, infrahttp.NewHTTPClient(cfg.Timeout), cfg.Retry)
	} else {
		src = adapters.NewFileSource(cfg.SourcePath, cfg.Retry)
	}
	if rdb != nil {
		return adapters.NewCachingSource(rdb, cfg.DocumentCacheTTL, src, "")
	}
	return src
}

// NewIndexStore creates the index store with the weekends-only reference offset of cal.
func NewIndexStore(cfg adapters.Config, rdb *redis.Client, cal *calendar.Calendar) *usecase.Store {
	return usecase.NewStore(NewIndexSource(cfg, rdb), cal, cfg.TTL)
}
