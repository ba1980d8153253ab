package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/platform/calendar"
)

const (
	// ReferenceIndexCode は技術価値の計算に使う指数コードです。
	ReferenceIndexCode = "CER"
	// ReferenceOffsetDays は決済日から CER 参照日までの営業日数です。
	ReferenceOffsetDays = 10
	// ReferenceFallbackDays は参照日で見つからない場合にさらに遡る暦日数です。
	ReferenceFallbackDays = 10
	// maxQuoteLookups は同時に実行する気配値取得の上限です。
	maxQuoteLookups = 8
)

// CashflowSource returns the raw rows of the cashflow table.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CashflowSource interface {
	Rows(ctx context.Context) ([]entity.CashflowRow, error)
}

// IndexLookup resolves the reference index for a settlement date.
type IndexLookup interface {
	Get(ctx context.Context, code string, date time.Time) (float64, bool)
	GetIndexForSettlement(ctx context.Context, code string, settlement time.Time, offset int) (float64, time.Time, bool)
}

// MarketQuoteSource returns the latest market snapshot for a normalized ticker.
// ok is false when the instrument has no quote.
type MarketQuoteSource interface {
	Quote(ctx context.Context, ticker string) (entity.MarketSnapshot, bool, error)
}

// SettlementCalendar advances trade dates to settlement dates.
type SettlementCalendar interface {
	AddBusinessDays(t time.Time, n int) time.Time
}

// ValuationUsecase computes the boncer report on each call. It holds no state
// between calls.
type ValuationUsecase struct {
	cashflows CashflowSource
	index     IndexLookup
	quotes    MarketQuoteSource
	calendar  SettlementCalendar
	location  *time.Location
}

// NewValuationUsecase creates a ValuationUsecase. quotes may be nil, in which
// case every instrument is valued without a market price.
func NewValuationUsecase(cashflows CashflowSource, index IndexLookup, quotes MarketQuoteSource, cal SettlementCalendar) *ValuationUsecase {
	return &ValuationUsecase{
		cashflows: cashflows,
		index:     index,
		quotes:    quotes,
		calendar:  cal,
		location:  calendar.MarketLocation(),
	}
}

// Valuate builds bundles from the current cashflow table and values each one.
//
// An unreadable table yields an empty report and an error wrapping
// ErrSourceUnavailable. A table without the required columns yields an empty
// report and no error.
func (u *ValuationUsecase) Valuate(ctx context.Context, now time.Time) (entity.Report, error) {
	report := entity.Report{Rows: []entity.ValuationResult{}}

	rows, err := u.cashflows.Rows(ctx)
	if err != nil {
		report.SettlementDate = u.defaultSettlement(now)
		if errors.Is(err, ErrStructural) {
			slog.Warn("cashflow table skipped", "error", err)
			return report, nil
		}
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return report, err
	}

	bundles := BuildBundles(rows)
	settlement := u.settlementDate(rows, now)
	report.SettlementDate = settlement

	cerRef, refDate := u.referenceIndex(ctx, settlement)
	report.ReferenceIndexDate = refDate
	report.ReferenceIndexValue = cerRef

	snapshots := u.lookupQuotes(ctx, bundles)
	for i, b := range bundles {
		res := Value(b, settlement, cerRef, snapshots[i])
		res.ReferenceIndexDate = report.ReferenceIndexDate
		report.Rows = append(report.Rows, Round(res))
	}

	slog.Info("boncer valuation completed",
		"instruments", len(report.Rows),
		"settlement", settlement.Format(calendar.DateFormat),
		"cerAvailable", cerRef != nil,
	)
	return report, nil
}

// referenceIndex looks CER up on the offset date. On a miss it walks back one
// calendar day at a time, up to ReferenceFallbackDays, before giving up. The
// returned date is always the offset date.
func (u *ValuationUsecase) referenceIndex(ctx context.Context, settlement time.Time) (*float64, time.Time) {
	v, refDate, ok := u.index.GetIndexForSettlement(ctx, ReferenceIndexCode, settlement, ReferenceOffsetDays)
	if ok {
		return &v, refDate
	}
	for i := 1; i <= ReferenceFallbackDays; i++ {
		d := refDate.AddDate(0, 0, -i)
		if v, ok := u.index.Get(ctx, ReferenceIndexCode, d); ok {
			slog.Info("reference index taken from an earlier date",
				"code", ReferenceIndexCode,
				"referenceDate", refDate.Format(calendar.DateFormat),
				"foundFrom", d.Format(calendar.DateFormat),
			)
			return &v, refDate
		}
	}
	slog.Warn("reference index not found", "code", ReferenceIndexCode, "date", refDate.Format(calendar.DateFormat))
	return nil, refDate
}

// Instruments lists the bundles of the current cashflow table.
func (u *ValuationUsecase) Instruments(ctx context.Context) ([]entity.Instrument, error) {
	rows, err := u.cashflows.Rows(ctx)
	if err != nil {
		if errors.Is(err, ErrStructural) {
			slog.Warn("cashflow table skipped", "error", err)
			return []entity.Instrument{}, nil
		}
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return []entity.Instrument{}, err
	}

	bundles := BuildBundles(rows)
	out := make([]entity.Instrument, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, entity.Instrument{
			Ticker:        b.Ticker,
			ISIN:          b.ISIN,
			Issuer:        b.Issuer,
			MaturityDate:  b.MaturityDate,
			CashflowCount: len(b.Cashflows),
		})
	}
	return out, nil
}

// settlementDate uses the first explicit settlement date of the table,
// falling back to T+1 business days in market time.
func (u *ValuationUsecase) settlementDate(rows []entity.CashflowRow, now time.Time) time.Time {
	for _, r := range rows {
		if r.SettlementDate != nil {
			return calendar.Day(*r.SettlementDate)
		}
	}
	return u.defaultSettlement(now)
}

func (u *ValuationUsecase) defaultSettlement(now time.Time) time.Time {
	today := calendar.Day(now.In(u.location))
	return u.calendar.AddBusinessDays(today, 1)
}

// lookupQuotes fetches quotes concurrently. A failed or missing quote leaves
// an empty snapshot for that bundle.
func (u *ValuationUsecase) lookupQuotes(ctx context.Context, bundles []entity.BondBundle) []entity.MarketSnapshot {
	out := make([]entity.MarketSnapshot, len(bundles))
	if u.quotes == nil {
		return out
	}

	var g errgroup.Group
	g.SetLimit(maxQuoteLookups)
	for i, b := range bundles {
		g.Go(func() error {
			ticker := entity.NormalizeTicker(b.Ticker)
			snap, ok, err := u.quotes.Quote(ctx, ticker)
			if err != nil {
				slog.Warn("market quote lookup failed", "ticker", ticker, "error", err)
				return nil
			}
			if ok {
				out[i] = snap
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
