package usecase

import (
	"sort"
	"strings"
	"time"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/platform/calendar"
)

// BuildBundles groups rows by normalized ticker in first-seen order.
// Scalar fields keep the first non-empty value seen for the ticker.
// A row with a date and any amount becomes a cashflow; a dated row with no
// amounts only hints the maturity date.
func BuildBundles(rows []entity.CashflowRow) []entity.BondBundle {
	order := make([]string, 0)
	bundles := make(map[string]*entity.BondBundle)
	hints := make(map[string]*entity.BondBundle)

	for _, r := range rows {
		key := entity.NormalizeTicker(r.Ticker)
		if key == "" {
			continue
		}
		b, ok := bundles[key]
		if !ok {
			b = &entity.BondBundle{Ticker: strings.ToUpper(strings.TrimSpace(r.Ticker))}
			bundles[key] = b
			hints[key] = &entity.BondBundle{}
			order = append(order, key)
		}
		mergeScalars(b, r)

		if r.Date == nil {
			continue
		}
		date := calendar.Day(*r.Date)
		if r.Amount == nil && r.Principal == nil && r.Interest == nil {
			if h := hints[key]; h.MaturityDate.IsZero() || date.After(h.MaturityDate) {
				h.MaturityDate = date
			}
			continue
		}
		b.Cashflows = append(b.Cashflows, toCashflow(date, r))
	}

	out := make([]entity.BondBundle, 0, len(order))
	for _, key := range order {
		b := bundles[key]
		sort.SliceStable(b.Cashflows, func(i, j int) bool {
			return b.Cashflows[i].Date.Before(b.Cashflows[j].Date)
		})
		if n := len(b.Cashflows); n > 0 {
			b.MaturityDate = b.Cashflows[n-1].Date
		} else {
			b.MaturityDate = hints[key].MaturityDate
		}
		out = append(out, *b)
	}
	return out
}

func mergeScalars(b *entity.BondBundle, r entity.CashflowRow) {
	if b.ISIN == "" {
		b.ISIN = strings.TrimSpace(r.ISIN)
	}
	if b.Issuer == "" {
		b.Issuer = strings.TrimSpace(r.Issuer)
	}
	b.FaceValue = firstSet(b.FaceValue, r.FaceValue)
	b.CouponRate = firstSet(b.CouponRate, r.CouponRate)
	b.InitialIndexValue = firstSet(b.InitialIndexValue, r.InitialIndexValue)
	b.CapitalizationFactor = firstSet(b.CapitalizationFactor, r.CapitalizationFactor)
}

func firstSet(cur, next *float64) *float64 {
	if cur != nil {
		return cur
	}
	return next
}

// toCashflow fills Amount from principal + interest when the total is missing.
func toCashflow(date time.Time, r entity.CashflowRow) entity.Cashflow {
	cf := entity.Cashflow{Date: date}
	if r.Principal != nil {
		cf.Principal = *r.Principal
	}
	if r.Interest != nil {
		cf.Interest = *r.Interest
	}
	if r.Amount != nil {
		cf.Amount = *r.Amount
	} else {
		cf.Amount = cf.Principal + cf.Interest
	}
	return cf
}
