package usecase

import (
	"math"
	"time"

	"boncer_backend/internal/feature/boncer/domain/entity"
	"boncer_backend/internal/platform/calendar"
)

const (
	// DaysPerYear は年換算に使う日数です。
	DaysPerYear = 365.0
	// DefaultCouponPeriodDays は利払い間隔が判定できない場合の半年払い想定の日数です。
	DefaultCouponPeriodDays = 182
	// minCouponGapDays を超える最初の間隔を利払い期間とみなします。
	minCouponGapDays = 25
	// maxStubDays は直前の利払い日がない場合に遡る上限日数です。
	maxStubDays = 30

	yieldFloor      = -0.005
	yieldCeiling    = 0.02
	yieldIterations = 70
)

// flow is a cashflow positioned t days after settlement.
type flow struct {
	t         float64
	amount    float64
	principal float64
}

// CapitalizationFactor returns the bundle factor when set and positive, else 1.
func CapitalizationFactor(b entity.BondBundle) float64 {
	if b.CapitalizationFactor != nil && *b.CapitalizationFactor > 0 {
		return *b.CapitalizationFactor
	}
	return 1
}

// TechnicalValue is VN * (CERref / CERinitial) * factor. It is nil unless the
// face value, a positive initial index value and the reference index are all present.
func TechnicalValue(b entity.BondBundle, cerRef *float64) *float64 {
	if b.FaceValue == nil || b.InitialIndexValue == nil || *b.InitialIndexValue <= 0 || cerRef == nil {
		return nil
	}
	vt := *b.FaceValue * (*cerRef / *b.InitialIndexValue) * CapitalizationFactor(b)
	return &vt
}

// CouponPeriodDays returns the first gap between consecutive cashflow dates
// longer than 25 days, or 182 when there is none.
func CouponPeriodDays(cfs []entity.Cashflow) int {
	for i := 1; i < len(cfs); i++ {
		if gap := calendar.DaysBetween(cfs[i-1].Date, cfs[i].Date); gap > minCouponGapDays {
			return gap
		}
	}
	return DefaultCouponPeriodDays
}

// periodStart returns the latest cashflow date not after settlement. Without
// one, the start is approximated as settlement - min(30, periodDays).
func periodStart(cfs []entity.Cashflow, settlement time.Time, periodDays int) time.Time {
	var start time.Time
	for _, cf := range cfs {
		if cf.Date.After(settlement) {
			continue
		}
		if start.IsZero() || cf.Date.After(start) {
			start = cf.Date
		}
	}
	if start.IsZero() {
		start = settlement.AddDate(0, 0, -min(maxStubDays, periodDays))
	}
	return start
}

// AccruedInterest is couponRate * VT * elapsed / periodDays with elapsed
// clamped to [0, periodDays]. It is zero when the coupon rate is not positive
// or VT is unknown.
func AccruedInterest(b entity.BondBundle, vt *float64, settlement time.Time) float64 {
	if b.CouponRate == nil || *b.CouponRate <= 0 || vt == nil {
		return 0
	}
	periodDays := CouponPeriodDays(b.Cashflows)
	start := periodStart(b.Cashflows, settlement, periodDays)
	elapsed := max(0, min(calendar.DaysBetween(start, settlement), periodDays))

	return math.Max(0, *b.CouponRate**vt*float64(elapsed)/float64(periodDays))
}

// ReconcilePrices derives the missing side of the dirty/clean pair.
// A dirty quote wins over a clean one; clean is floored at zero.
func ReconcilePrices(mkt entity.MarketSnapshot, accrued float64) (dirty, clean *float64) {
	switch {
	case mkt.DirtyPrice != nil:
		d := *mkt.DirtyPrice
		c := math.Max(0, d-accrued)
		return &d, &c
	case mkt.CleanPrice != nil:
		c := math.Max(0, *mkt.CleanPrice)
		d := c + accrued
		return &d, &c
	default:
		return nil, nil
	}
}

// Parity is dirty / VT.
func Parity(dirty, vt *float64) *float64 {
	if dirty == nil || vt == nil || *vt <= 0 {
		return nil
	}
	p := *dirty / *vt
	return &p
}

// futureFlows keeps the cashflows paid strictly after settlement.
func futureFlows(cfs []entity.Cashflow, settlement time.Time) []flow {
	out := make([]flow, 0, len(cfs))
	for _, cf := range cfs {
		t := calendar.DaysBetween(settlement, cf.Date)
		if t <= 0 {
			continue
		}
		out = append(out, flow{t: float64(t), amount: cf.Amount, principal: cf.Principal})
	}
	return out
}

// presentValue discounts flows at daily rate y with per-day compounding.
func presentValue(flows []flow, y float64) float64 {
	pv := 0.0
	for _, f := range flows {
		pv += f.amount / math.Pow(1+y, f.t)
	}
	return pv
}

// SolveDailyYield bisects y in [-0.005, 0.02] so that presentValue(y) = price.
// Present value decreases in y, so a fixed iteration count bounds the bracket
// width at 0.025 / 2^iterations. It returns the midpoint and the final bracket.
func SolveDailyYield(flows []flow, price float64, iterations int) (y, lo, hi float64) {
	lo, hi = yieldFloor, yieldCeiling
	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		if presentValue(flows, mid) > price {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, lo, hi
}

// Durations returns Macaulay duration (years), modified duration and convexity
// at daily rate y for the given dirty price.
func Durations(flows []flow, y, price float64) (macaulay, modified, convexity float64) {
	var weighted, convex float64
	for _, f := range flows {
		years := f.t / DaysPerYear
		pv := f.amount / math.Pow(1+y, f.t)
		weighted += years * pv
		convex += pv * years * (years + 1/DaysPerYear)
	}
	macaulay = weighted / price
	tna := y * DaysPerYear
	modified = macaulay / (1 + tna/DaysPerYear)
	convexity = convex / price
	return macaulay, modified, convexity
}

// WeightedAverageLife is the principal-weighted average time to repayment in
// years. It is nil when no principal remains.
func WeightedAverageLife(flows []flow) *float64 {
	var weighted, total float64
	for _, f := range flows {
		if f.principal <= 0 {
			continue
		}
		weighted += f.t / DaysPerYear * f.principal
		total += f.principal
	}
	if total <= 0 {
		return nil
	}
	wal := weighted / total
	return &wal
}

// Value computes the unrounded analytics row of one bundle. Missing inputs
// leave the dependent fields nil; it never fails.
func Value(b entity.BondBundle, settlement time.Time, cerRef *float64, mkt entity.MarketSnapshot) entity.ValuationResult {
	settlement = calendar.Day(settlement)
	res := entity.ValuationResult{
		Ticker:              b.Ticker,
		ISIN:                b.ISIN,
		Issuer:              b.Issuer,
		MaturityDate:        b.MaturityDate,
		Volume:              mkt.Volume,
		DailyChangePct:      mkt.DailyChangePct,
		SettlementDate:      settlement,
		ReferenceIndexValue: cerRef,
	}
	if !b.MaturityDate.IsZero() {
		days := calendar.DaysBetween(settlement, b.MaturityDate)
		res.DaysToMaturity = &days
	}

	vt := TechnicalValue(b, cerRef)
	accrued := AccruedInterest(b, vt, settlement)
	res.TechnicalValue = vt
	res.AccruedInterest = &accrued
	res.DirtyPrice, res.CleanPrice = ReconcilePrices(mkt, accrued)
	res.Parity = Parity(res.DirtyPrice, vt)

	flows := futureFlows(b.Cashflows, settlement)
	res.WeightedAverageLife = WeightedAverageLife(flows)

	if res.DirtyPrice == nil || *res.DirtyPrice <= 0 || len(flows) == 0 {
		return res
	}
	price := *res.DirtyPrice
	y, _, _ := SolveDailyYield(flows, price, yieldIterations)
	tna := y * DaysPerYear
	tirea := math.Pow(1+y, DaysPerYear) - 1
	mac, mod, conv := Durations(flows, y, price)

	res.TNA = &tna
	res.TIREA = &tirea
	res.MacaulayDuration = &mac
	res.ModifiedDuration = &mod
	res.Convexity = &conv
	return res
}
