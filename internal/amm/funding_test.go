package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFundingRate_NoLeveragedExposure(t *testing.T) {
	r := PoolReserves{
		EffectiveSolReserve:   1000 * LamportsPerSol,
		EffectiveTokenReserve: 1_000_000 * TokenBaseUnits,
		FundingConstantC:      1e6,
	}

	rate := r.FundingRate()
	assert.Equal(t, FundingRate{}, rate, "no open leverage means zero funding")
}

func TestFundingRate_DrainedPool(t *testing.T) {
	r := PoolReserves{
		EffectiveSolReserve:   0,
		EffectiveTokenReserve: 1_000_000 * TokenBaseUnits,
		TotalDeltaKLongs:      1e15,
		FundingConstantC:      1e6,
	}

	// k_e == 0 must short-circuit rather than divide.
	assert.Equal(t, FundingRate{}, r.FundingRate())
}

func TestFundingRate_QuadraticScaling(t *testing.T) {
	r := PoolReserves{
		EffectiveSolReserve:   1000 * LamportsPerSol,
		EffectiveTokenReserve: 1_000_000 * TokenBaseUnits,
		TotalDeltaKLongs:      1e18,
		TotalDeltaKShorts:     0,
		FundingConstantC:      1e6,
	}

	base := r.FundingRate()
	// ratio = 1e18/1e24 = 1e-6; perSecond = 1e6 * 1e-12 * 100 = 1e-4 %.
	assert.InDelta(t, 1e-4, base.PerSecond, 1e-12)

	r.TotalDeltaKLongs = 2e18
	doubled := r.FundingRate()
	assert.InEpsilon(t, 4*base.PerSecond, doubled.PerSecond, 1e-9,
		"doubling delta-K must quadruple the rate")

	t.Logf("per second: %.6f%%, per day: %.4f%%, per annum: %.2f%%",
		doubled.PerSecond, doubled.PerDay, doubled.PerAnnum)
}

func TestFundingRate_LinearExtrapolation(t *testing.T) {
	r := PoolReserves{
		EffectiveSolReserve:   1000 * LamportsPerSol,
		EffectiveTokenReserve: 1_000_000 * TokenBaseUnits,
		TotalDeltaKLongs:      5e17,
		TotalDeltaKShorts:     5e17,
		FundingConstantC:      2.5,
	}

	rate := r.FundingRate()
	assert.InEpsilon(t, rate.PerSecond*86_400, rate.PerDay, 1e-12)
	assert.InEpsilon(t, rate.PerDay*365, rate.PerAnnum, 1e-12)
	assert.GreaterOrEqual(t, rate.PerSecond, 0.0, "funding is direction-agnostic, never negative")
}
