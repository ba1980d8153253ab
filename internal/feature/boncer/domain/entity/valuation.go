package entity

import "time"

// ValuationResult is the computed analytics row of one instrument.
// Every pointer field is nil when one of its prerequisites is missing.
type ValuationResult struct {
	Ticker       string
	ISIN         string
	Issuer       string
	MaturityDate time.Time

	TechnicalValue      *float64
	AccruedInterest     *float64
	CleanPrice          *float64
	DirtyPrice          *float64
	Parity              *float64
	TNA                 *float64 // annual simple yield, dailyRate*365
	TIREA               *float64 // effective annual yield, (1+dailyRate)^365-1
	MacaulayDuration    *float64 // years
	ModifiedDuration    *float64
	Convexity           *float64
	WeightedAverageLife *float64 // years
	DaysToMaturity      *int

	Volume         *float64
	DailyChangePct *float64

	SettlementDate      time.Time
	ReferenceIndexDate  time.Time
	ReferenceIndexValue *float64
}

// Report is the full response of one valuation request.
type Report struct {
	SettlementDate      time.Time
	ReferenceIndexDate  time.Time
	ReferenceIndexValue *float64
	Rows                []ValuationResult
}

// Instrument is the catalogue entry of a bundled bond.
type Instrument struct {
	Ticker        string
	ISIN          string
	Issuer        string
	MaturityDate  time.Time
	CashflowCount int
}
