// =============================
// File: internal/amm/funding.go
// =============================
package amm

// FundingRate holds the periodic funding charged against leveraged
// positions, expressed in percent.
type FundingRate struct {
	PerSecond float64
	PerDay    float64
	PerAnnum  float64
}

const (
	secondsPerDay = 86_400
	daysPerYear   = 365
)

// FundingRate derives the pool's current funding rate from the ratio
// of aggregate leveraged exposure (delta-K of longs plus shorts) to
// the effective constant product. The rate grows quadratically with
// that ratio and is direction-agnostic: both sides pay more as total
// leverage piles up relative to pool depth.
//
// Day and annum figures are simple linear extrapolations of the
// per-second rate, not compounded.
func (r PoolReserves) FundingRate() FundingRate {
	kEffective := float64(r.EffectiveSolReserve) * float64(r.EffectiveTokenReserve)
	totalDeltaK := float64(r.TotalDeltaKLongs) + float64(r.TotalDeltaKShorts)

	// No leveraged exposure, or a drained pool: funding is off.
	if totalDeltaK == 0 || kEffective == 0 {
		return FundingRate{}
	}

	leverageRatio := totalDeltaK / kEffective
	perSecond := r.FundingConstantC * leverageRatio * leverageRatio * 100

	perDay := perSecond * secondsPerDay
	return FundingRate{
		PerSecond: perSecond,
		PerDay:    perDay,
		PerAnnum:  perDay * daysPerYear,
	}
}
