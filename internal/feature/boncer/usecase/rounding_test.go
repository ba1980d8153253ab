package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boncer_backend/internal/feature/boncer/domain/entity"
)

func TestRound(t *testing.T) {
	in := entity.ValuationResult{
		TechnicalValue:   ptr(2.675),
		AccruedInterest:  ptr(1.005),
		DirtyPrice:       ptr(99.999),
		TNA:              ptr(0.12345649),
		TIREA:            ptr(0.1234565),
		MacaulayDuration: ptr(1.23456),
		Convexity:        ptr(math.NaN()),
	}

	out := Round(in)

	require.NotNil(t, out.TechnicalValue)
	assert.Equal(t, 2.68, *out.TechnicalValue)
	assert.Equal(t, 1.01, *out.AccruedInterest)
	assert.Equal(t, 100.0, *out.DirtyPrice)
	assert.Equal(t, 0.123456, *out.TNA)
	assert.Equal(t, 0.123457, *out.TIREA)
	assert.Equal(t, 1.2346, *out.MacaulayDuration)
	assert.Nil(t, out.Convexity)
	assert.Nil(t, out.CleanPrice)
	// 入力は変更しない
	assert.Equal(t, 2.675, *in.TechnicalValue)
}

func TestRound_CleanPriceMatchesRoundedDirtyMinusAccrued(t *testing.T) {
	testCases := []struct {
		name      string
		dirty     float64
		accrued   float64
		clean     float64
		wantDirty float64
		wantAI    float64
		wantClean float64
	}{
		// 99.002 を単独で丸めると 99.00 になり 100.01 - 1.00 と一致しない
		{name: "third decimal on dirty", dirty: 100.006, accrued: 1.004, clean: 99.002, wantDirty: 100.01, wantAI: 1.0, wantClean: 99.01},
		{name: "already consistent", dirty: 95.5, accrued: 0.25, clean: 95.25, wantDirty: 95.5, wantAI: 0.25, wantClean: 95.25},
		{name: "floored at zero", dirty: 0.5, accrued: 0.8, clean: 0, wantDirty: 0.5, wantAI: 0.8, wantClean: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := Round(entity.ValuationResult{
				DirtyPrice:      ptr(tc.dirty),
				AccruedInterest: ptr(tc.accrued),
				CleanPrice:      ptr(tc.clean),
			})

			require.NotNil(t, out.CleanPrice)
			assert.Equal(t, tc.wantDirty, *out.DirtyPrice)
			assert.Equal(t, tc.wantAI, *out.AccruedInterest)
			assert.Equal(t, tc.wantClean, *out.CleanPrice)
		})
	}
}
