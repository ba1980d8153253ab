package adapters

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"boncer_backend/internal/feature/indexseries/domain/entity"
	"boncer_backend/internal/feature/indexseries/usecase"
)

// CachingSource decorates a SeriesSource with a shared Redis copy of the
// decoded document, so several instances do not all hit the upstream source.
type CachingSource struct {
	inner usecase.SeriesSource
	rdb   *redis.Client
	ttl   time.Duration
	key   string
}

var _ usecase.SeriesSource = (*CachingSource)(nil)

// NewCachingSource wraps inner. If ttl is 0, it defaults to 60 seconds. If key is empty, it uses "indices:snapshot".
func NewCachingSource(rdb *redis.Client, ttl time.Duration, inner usecase.SeriesSource, key string) *CachingSource {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if key == "" {
		key = "indices:snapshot"
	}
	return &CachingSource{inner: inner, rdb: rdb, ttl: ttl, key: key}
}

// Load returns the cached document when present, otherwise loads from inner and caches it.
func (c *CachingSource) Load(ctx context.Context) (entity.Snapshot, error) {
	if c.rdb == nil {
		return c.inner.Load(ctx)
	}

	if b, err := c.rdb.Get(ctx, c.key).Bytes(); err == nil && len(b) > 0 {
		if s, err := decodeDocument(b); err == nil {
			return s, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, c.key).Err()
	}

	s, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	if s.Len() == 0 {
		return s, nil
	}
	if b, err := encodeDocument(s); err == nil {
		_ = c.rdb.Set(ctx, c.key, b, c.ttl).Err()
	}
	return s, nil
}
