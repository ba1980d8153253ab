package dto

import (
	"time"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/platform/calendar"
)

// FormatDate renders t as YYYY-MM-DD, or nil for the zero time.
func FormatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(calendar.DateFormat)
	return &s
}

// NewReportResponse converts a valuation report into its JSON shape. The HTTP
// handler and the one-shot command share it.
func NewReportResponse(r entity.Report) ReportResponse {
	out := ReportResponse{
		SettlementDate:      r.SettlementDate.Format(calendar.DateFormat),
		ReferenceIndexDate:  FormatDate(r.ReferenceIndexDate),
		ReferenceIndexValue: r.ReferenceIndexValue,
		Rows:                make([]ValuationRow, 0, len(r.Rows)),
	}
	for _, v := range r.Rows {
		out.Rows = append(out.Rows, ValuationRow{
			Ticker:              v.Ticker,
			ISIN:                v.ISIN,
			Issuer:              v.Issuer,
			MaturityDate:        FormatDate(v.MaturityDate),
			DaysToMaturity:      v.DaysToMaturity,
			TechnicalValue:      v.TechnicalValue,
			AccruedInterest:     v.AccruedInterest,
			CleanPrice:          v.CleanPrice,
			DirtyPrice:          v.DirtyPrice,
			Parity:              v.Parity,
			TNA:                 v.TNA,
			TIREA:               v.TIREA,
			MacaulayDuration:    v.MacaulayDuration,
			ModifiedDuration:    v.ModifiedDuration,
			Convexity:           v.Convexity,
			WeightedAverageLife: v.WeightedAverageLife,
			Volume:              v.Volume,
			DailyChangePct:      v.DailyChangePct,
			SettlementDate:      v.SettlementDate.Format(calendar.DateFormat),
			ReferenceIndexDate:  FormatDate(v.ReferenceIndexDate),
			ReferenceIndexValue: v.ReferenceIndexValue,
		})
	}
	return out
}
