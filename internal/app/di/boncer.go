package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"boncer_backend/internal/feature/boncer/adapters"
	"boncer_backend/internal/feature/boncer/usecase"
	"boncer_backend/internal/platform/calendar"
)

// NewQuoteSource returns the market_quotes repository, wrapped with the Redis
// quote cache when Redis is available. Without a database it returns nil and
// instruments are valued without prices.
func NewQuoteSource(cfg adapters.Config, rdb *redis.Client, db *gorm.DB) usecase.MarketQuoteSource {
	if db == nil {
		return nil
	}
	repo := adapters.NewQuoteRepository(db)
	if rdb != nil {
		return adapters.NewCachingQuoteSource(rdb, cfg.QuoteCacheTTL, repo)
	}
	return repo
}

// NewValuationUsecase wires the CSV cashflow table, the index store and the quote source.
func NewValuationUsecase(cfg adapters.Config, index usecase.IndexLookup, rdb *redis.Client, db *gorm.DB, cal *calendar.Calendar) *usecase.ValuationUsecase {
	return usecase.NewValuationUsecase(
		adapters.NewCSVSource(cfg.CashflowPath, cfg.Retry),
		index,
		NewQuoteSource(cfg, rdb, db),
		cal,
	)
}

// NewQuoteWriter returns the market_quotes repository, invalidating the Redis
// quote cache on writes when Redis is available. Without a database it returns nil.
func NewQuoteWriter(rdb *redis.Client, db *gorm.DB) usecase.QuoteWriter {
	if db == nil {
		return nil
	}
	repo := adapters.NewQuoteRepository(db)
	if rdb != nil {
		return adapters.NewInvalidatingQuoteWriter(rdb, repo)
	}
	return repo
}

// NewQuoteIngestUsecase wires the price push to the quote store.
func NewQuoteIngestUsecase(rdb *redis.Client, db *gorm.DB) *usecase.QuoteIngestUsecase {
	return usecase.NewQuoteIngestUsecase(NewQuoteWriter(rdb, db))
}
