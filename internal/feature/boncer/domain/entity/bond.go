// Package entity defines the domain models for the boncer feature.
package entity

import (
	"strings"
	"time"
	"unicode"
)

// Cashflow is a single scheduled payment of a bond.
type Cashflow struct {
	Date      time.Time // payment date (midnight UTC)
	Amount    float64   // total amount paid on Date
	Principal float64   // amortization component of Amount
	Interest  float64   // interest component of Amount
}

// BondBundle aggregates all schedule rows sharing one ticker.
// When Cashflows is non-empty, MaturityDate equals the last cashflow date.
type BondBundle struct {
	Ticker               string
	ISIN                 string
	Issuer               string
	FaceValue            *float64 // nominal value (VN)
	CouponRate           *float64 // coupon rate as a fraction, applied per coupon period
	InitialIndexValue    *float64 // CER at issuance
	CapitalizationFactor *float64 // optional extra multiplier of the technical value
	MaturityDate         time.Time
	Cashflows            []Cashflow // ordered by Date
}

// CashflowRow is one parsed row of the cashflow table. Scalars are nil when
// the cell was blank or unparsable.
type CashflowRow struct {
	Ticker               string
	ISIN                 string
	Issuer               string
	FaceValue            *float64
	CouponRate           *float64
	InitialIndexValue    *float64
	CapitalizationFactor *float64
	Date                 *time.Time // payment date, or the maturity date on header-only rows
	SettlementDate       *time.Time
	Amount               *float64
	Principal            *float64
	Interest             *float64
}

// MarketSnapshot is the best-effort market quote for one instrument.
type MarketSnapshot struct {
	DirtyPrice     *float64
	CleanPrice     *float64
	Volume         *float64
	DailyChangePct *float64
}

// PriceUpdate is one pushed market price. When PctChange is nil the daily
// change is derived from PreviousPrice.
type PriceUpdate struct {
	Ticker        string
	Price         *float64
	PreviousPrice *float64
	PctChange     *float64 // percent points
	Volume        *float64
}

// NormalizeTicker upper-cases a ticker and strips whitespace and punctuation,
// e.g. " tx26.ba " -> "TX26BA".
func NormalizeTicker(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
