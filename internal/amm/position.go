// =============================
// File: internal/amm/position.go
// =============================
package amm

// Position describes an open leveraged position against a pool.
//
// Size is raw and denominated in the asset the position holds: token
// base units for longs, lamports for shorts. Collateral is raw in the
// opposite asset (lamports for longs, token base units for shorts).
// Leverage is the human multiplier (2.0 for 2x), already descaled from
// the on-chain integer.
type Position struct {
	IsLong     bool
	Size       uint64
	Collateral uint64
	Leverage   float64
}

// entryScaleShift bridges the 3-decimal gap between the SOL (9) and
// token (6) unit scales when forming the raw size/collateral ratio.
const entryScaleShift = 1e3

// EntryPrice returns the implied USD entry exchange rate of the
// position given the SOL/USD price at entry.
func (p Position) EntryPrice(solUsd float64) float64 {
	notional := float64(p.Collateral) * p.Leverage
	var rate float64
	if p.IsLong {
		rate = notional / (float64(p.Size) * entryScaleShift)
	} else {
		rate = (float64(p.Size) * entryScaleShift) / notional
	}
	return rate * solUsd
}

// PnL returns the position's profit or loss as a percent of posted
// collateral, marking the size leg to the pool's current curve.
//
// The model: realize the full size through the constant-product curve,
// subtract back the borrowed (leverage-1) portion at face value, and
// compare what is left against the collateral. Only the owned leg is
// revalued through the curve; the borrowed leg is repaid nominally.
func (p Position) PnL(r PoolReserves, solUsd float64) float64 {
	var outputUsd, collateralUsd float64

	if p.IsLong {
		// Token-denominated size sold into the pool for SOL.
		expectedSol := r.ExpectedOutput(tokenHuman(p.Size), false)
		borrowedSol := solHuman(p.Collateral) * (p.Leverage - 1)

		outputUsd = (expectedSol - borrowedSol) * solUsd
		collateralUsd = solHuman(p.Collateral) * solUsd
	} else {
		// SOL-denominated size swapped into tokens; both the net output
		// and the token collateral are valued at the effective pool
		// price, not the vault price.
		expectedToken := r.ExpectedOutput(solHuman(p.Size), true)
		borrowedToken := tokenHuman(p.Collateral) * (p.Leverage - 1)

		poolPrice := r.Price()
		outputUsd = (expectedToken - borrowedToken) * poolPrice * solUsd
		collateralUsd = tokenHuman(p.Collateral) * poolPrice * solUsd
	}

	if collateralUsd == 0 {
		return 0
	}
	return ((outputUsd - collateralUsd) / collateralUsd) * 100
}
