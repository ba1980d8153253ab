package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"boncer_backend/internal/feature/boncer/domain/entity"
)

// QuoteWriter stores market snapshots keyed by normalized ticker.
type QuoteWriter interface {
	UpsertBatch(ctx context.Context, quotes map[string]entity.MarketSnapshot) error
}

// QuoteIngestUsecase accepts pushed prices and stores them as market snapshots.
type QuoteIngestUsecase struct {
	writer QuoteWriter
}

// NewQuoteIngestUsecase creates a QuoteIngestUsecase. writer may be nil, in
// which case every push fails with ErrQuoteStoreUnavailable.
func NewQuoteIngestUsecase(writer QuoteWriter) *QuoteIngestUsecase {
	return &QuoteIngestUsecase{writer: writer}
}

// Ingest stores every update that has a ticker and a price and returns how
// many instruments were written. A later update for the same ticker replaces
// an earlier one.
func (u *QuoteIngestUsecase) Ingest(ctx context.Context, updates []entity.PriceUpdate) (int, error) {
	snaps := make(map[string]entity.MarketSnapshot, len(updates))
	for _, up := range updates {
		ticker := entity.NormalizeTicker(up.Ticker)
		if ticker == "" || up.Price == nil {
			continue
		}
		price := *up.Price
		snaps[ticker] = entity.MarketSnapshot{
			DirtyPrice:     &price,
			Volume:         up.Volume,
			DailyChangePct: DailyChangePct(up),
		}
	}
	if len(snaps) == 0 {
		return 0, ErrNoValidQuotes
	}
	if u.writer == nil {
		return 0, ErrQuoteStoreUnavailable
	}

	if err := u.writer.UpsertBatch(ctx, snaps); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQuoteStoreUnavailable, err)
	}
	slog.Info("market quotes ingested", "count", len(snaps))
	return len(snaps), nil
}

// DailyChangePct returns the change in percent points rounded to 2 places.
// An explicit PctChange wins; otherwise it is price/previous - 1, and 0 when
// there is no usable previous price.
func DailyChangePct(up entity.PriceUpdate) *float64 {
	var pct decimal.Decimal
	switch {
	case up.PctChange != nil:
		pct = decimal.NewFromFloat(*up.PctChange)
	case up.Price != nil && up.PreviousPrice != nil && *up.PreviousPrice != 0:
		ratio := decimal.NewFromFloat(*up.Price).DivRound(decimal.NewFromFloat(*up.PreviousPrice), 6)
		pct = ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	}
	v, _ := pct.Round(2).Float64()
	return &v
}
