package adapters

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/feature/boncer/usecase"
)

const quoteKeyPrefix = "quotes:"

// CachingQuoteSource decorates a MarketQuoteSource with Redis. Only found
// quotes are cached.
type CachingQuoteSource struct {
	inner usecase.MarketQuoteSource
	rdb   *redis.Client
	ttl   time.Duration
}

var _ usecase.MarketQuoteSource = (*CachingQuoteSource)(nil)

// NewCachingQuoteSource wraps inner. If ttl is 0, it defaults to 30 seconds.
func NewCachingQuoteSource(rdb *redis.Client, ttl time.Duration, inner usecase.MarketQuoteSource) *CachingQuoteSource {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachingQuoteSource{inner: inner, rdb: rdb, ttl: ttl}
}

func quoteKey(ticker string) string {
	return quoteKeyPrefix + entity.NormalizeTicker(ticker)
}

func (c *CachingQuoteSource) Quote(ctx context.Context, ticker string) (entity.MarketSnapshot, bool, error) {
	if c.rdb == nil {
		return c.inner.Quote(ctx, ticker)
	}

	key := quoteKey(ticker)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var snap entity.MarketSnapshot
		if err := json.Unmarshal(b, &snap); err == nil {
			return snap, true, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	snap, ok, err := c.inner.Quote(ctx, ticker)
	if err != nil || !ok {
		return snap, ok, err
	}

	if b, err := json.Marshal(snap); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Debug("quote cache write failed", "key", key, "error", err)
		}
	}
	return snap, true, nil
}

// InvalidatingQuoteWriter writes through to inner and then drops the cached
// entries of the written tickers, so the next valuation reads the new prices.
type InvalidatingQuoteWriter struct {
	inner usecase.QuoteWriter
	rdb   *redis.Client
}

var _ usecase.QuoteWriter = (*InvalidatingQuoteWriter)(nil)

// NewInvalidatingQuoteWriter wraps inner. rdb may be nil.
func NewInvalidatingQuoteWriter(rdb *redis.Client, inner usecase.QuoteWriter) *InvalidatingQuoteWriter {
	return &InvalidatingQuoteWriter{inner: inner, rdb: rdb}
}

func (w *InvalidatingQuoteWriter) UpsertBatch(ctx context.Context, quotes map[string]entity.MarketSnapshot) error {
	if err := w.inner.UpsertBatch(ctx, quotes); err != nil {
		return err
	}
	if w.rdb == nil || len(quotes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(quotes))
	for ticker := range quotes {
		keys = append(keys, quoteKey(ticker))
	}
	sort.Strings(keys)
	if err := w.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("quote cache invalidation failed", "keys", len(keys), "error", err)
	}
	return nil
}
