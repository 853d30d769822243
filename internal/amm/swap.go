// =============================
// File: internal/amm/swap.go
// =============================
package amm

import "math/big"

// rawSwapOutput computes the raw constant-product output for a raw
// input against reserves x (input side) and y (output side):
//
//	Δy = y * Δx / (x + Δx)
//
// No fee term: lever pools charge fees outside the curve. big.Float
// keeps the x*y product exact where float64 would drop low bits for
// large reserve products.
func rawSwapOutput(x, y, dx float64) float64 {
	if x+dx == 0 {
		// Only reachable when both the input amount and the input-side
		// effective reserve are zero. The program treats such a swap as
		// producing nothing, so we return 0 rather than NaN.
		return 0
	}

	xf := new(big.Float).SetFloat64(x)
	yf := new(big.Float).SetFloat64(y)
	af := new(big.Float).SetFloat64(dx)

	numerator := new(big.Float).Mul(yf, af)
	denominator := new(big.Float).Add(xf, af)
	result := new(big.Float).Quo(numerator, denominator)

	out, _ := result.Float64()
	return out
}

// ExpectedOutput quotes a swap against the effective reserves. The
// input amount is in human units of the input asset (whole SOL or
// whole tokens, per solToToken) and the result is in human units of
// the output asset.
func (r PoolReserves) ExpectedOutput(amount float64, solToToken bool) float64 {
	if solToToken {
		dx := amount * LamportsPerSol
		out := rawSwapOutput(float64(r.EffectiveSolReserve), float64(r.EffectiveTokenReserve), dx)
		return out / TokenBaseUnits
	}

	dx := amount * TokenBaseUnits
	out := rawSwapOutput(float64(r.EffectiveTokenReserve), float64(r.EffectiveSolReserve), dx)
	return out / LamportsPerSol
}
