package usecase

import (
	"math"

	"github.com/shopspring/decimal"

	"boncer_backend/internal/feature/boncer/domain/entity"
)

const (
	pricePlaces    int32 = 2
	yieldPlaces    int32 = 6
	durationPlaces int32 = 4
)

// roundTo rounds half away from zero in decimal arithmetic. NaN and ±Inf
// become nil.
func roundTo(v *float64, places int32) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r, _ := decimal.NewFromFloat(*v).Round(places).Float64()
	return &r
}

// Round applies the display precision to a computed row: money to 2 places,
// yields to 6 and durations/convexity to 4. The clean price is re-derived from
// the rounded dirty price and accrued interest so that
// clean = max(0, dirty - accrued) holds on the output.
func Round(r entity.ValuationResult) entity.ValuationResult {
	r.TechnicalValue = roundTo(r.TechnicalValue, pricePlaces)
	r.AccruedInterest = roundTo(r.AccruedInterest, pricePlaces)
	r.CleanPrice = roundTo(r.CleanPrice, pricePlaces)
	r.DirtyPrice = roundTo(r.DirtyPrice, pricePlaces)
	if r.CleanPrice != nil && r.DirtyPrice != nil && r.AccruedInterest != nil {
		r.CleanPrice = cleanFromRounded(*r.DirtyPrice, *r.AccruedInterest)
	}
	r.Parity = roundTo(r.Parity, yieldPlaces)
	r.TNA = roundTo(r.TNA, yieldPlaces)
	r.TIREA = roundTo(r.TIREA, yieldPlaces)
	r.MacaulayDuration = roundTo(r.MacaulayDuration, durationPlaces)
	r.ModifiedDuration = roundTo(r.ModifiedDuration, durationPlaces)
	r.Convexity = roundTo(r.Convexity, durationPlaces)
	r.WeightedAverageLife = roundTo(r.WeightedAverageLife, durationPlaces)
	return r
}

func cleanFromRounded(dirty, accrued float64) *float64 {
	d := decimal.NewFromFloat(dirty).Sub(decimal.NewFromFloat(accrued))
	if d.IsNegative() {
		d = decimal.Zero
	}
	v, _ := d.Round(pricePlaces).Float64()
	return &v
}
