// =============================
// File: internal/amm/price.go
// =============================
package amm

// Price returns the pool price in SOL per token implied by the
// effective (virtual) reserves, i.e. the price the program would quote
// an infinitesimal trade.
//
// Deliberately unguarded: a zero effective token reserve yields +Inf
// (or NaN for 0/0) and the caller is expected to have filtered such
// pools upstream. RealPrice below guards the same division; call sites
// rely on both behaviors, so the asymmetry must stay.
func (r PoolReserves) Price() float64 {
	return solHuman(r.EffectiveSolReserve) / tokenHuman(r.EffectiveTokenReserve)
}

// RealPrice returns SOL per token from the actual vault balances.
// Returns 0 when the token vault is empty.
func (r PoolReserves) RealPrice() float64 {
	tokens := tokenHuman(r.TokenReserve)
	if tokens == 0 {
		return 0
	}
	return solHuman(r.SolReserve) / tokens
}

// MarketCap values the full nominal supply at the current effective
// pool price, in USD.
func (r PoolReserves) MarketCap(solUsd float64) float64 {
	return TotalTokenSupply * r.Price() * solUsd
}

// Liquidity approximates the pool's two-sided USD depth by doubling
// the SOL-side effective reserve.
func (r PoolReserves) Liquidity(solUsd float64) float64 {
	return solHuman(r.EffectiveSolReserve) * 2 * solUsd
}
