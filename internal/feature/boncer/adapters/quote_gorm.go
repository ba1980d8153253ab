package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/feature/boncer/usecase"
)

// QuoteModel is the latest market snapshot of one instrument.
type QuoteModel struct {
	ID     uint   `gorm:"primaryKey"`
	Ticker string `gorm:"size:32;not null;uniqueIndex"`

	DirtyPrice     *float64
	CleanPrice     *float64
	Volume         *float64
	DailyChangePct *float64
	UpdatedAt      time.Time
}

func (QuoteModel) TableName() string {
	return "market_quotes"
}

// QuoteRepository reads and writes market_quotes keyed by normalized ticker.
type QuoteRepository struct {
	db *gorm.DB
}

var (
	_ usecase.MarketQuoteSource = (*QuoteRepository)(nil)
	_ usecase.QuoteWriter       = (*QuoteRepository)(nil)
)

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Quote returns ok=false when the ticker has no row.
func (r *QuoteRepository) Quote(ctx context.Context, ticker string) (entity.MarketSnapshot, bool, error) {
	var m QuoteModel
	err := r.db.WithContext(ctx).
		Where("ticker = ?", entity.NormalizeTicker(ticker)).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.MarketSnapshot{}, false, nil
	}
	if err != nil {
		return entity.MarketSnapshot{}, false, err
	}
	return entity.MarketSnapshot{
		DirtyPrice:     m.DirtyPrice,
		CleanPrice:     m.CleanPrice,
		Volume:         m.Volume,
		DailyChangePct: m.DailyChangePct,
	}, true, nil
}

// UpsertBatch inserts or replaces quotes by ticker.
func (r *QuoteRepository) UpsertBatch(ctx context.Context, quotes map[string]entity.MarketSnapshot) error {
	if len(quotes) == 0 {
		return nil
	}
	ms := make([]QuoteModel, 0, len(quotes))
	for ticker, q := range quotes {
		ms = append(ms, QuoteModel{
			Ticker:         entity.NormalizeTicker(ticker),
			DirtyPrice:     q.DirtyPrice,
			CleanPrice:     q.CleanPrice,
			Volume:         q.Volume,
			DailyChangePct: q.DailyChangePct,
		})
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"dirty_price", "clean_price", "volume", "daily_change_pct", "updated_at"}),
	}).Create(&ms).Error
}
