// =============================
// File: internal/amm/reserves.go
// =============================

// Package amm implements the pricing, funding and P&L math for a
// lever-style constant-product pool with leveraged positions.
//
// Every function is pure: it takes a PoolReserves snapshot (plus an
// externally supplied SOL/USD price where needed) and returns a value.
// Nothing in this package touches the network or holds state, so all
// of it is safe to call concurrently.
package amm

// Decimal scales of the two sides of every lever pool. SOL (and WSOL
// vaults) carry 9 decimals, launched tokens always carry 6.
const (
	SolDecimals   = 9
	TokenDecimals = 6

	LamportsPerSol   = 1e9
	TokenBaseUnits   = 1e6
	TotalTokenSupply = 1_000_000_000 // whole tokens, fixed at launch
)

// PoolReserves is a snapshot of a pool account's balances. All integer
// fields are raw on-chain amounts in smallest units. The snapshot is
// immutable as far as this package is concerned; callers build a fresh
// one from each account fetch.
//
// Effective reserves are the virtual balances the program prices trades
// against. They drift away from the real vault balances while leveraged
// positions are open, which is why both pairs are carried here.
type PoolReserves struct {
	SolReserve   uint64 // lamports actually held by the SOL vault
	TokenReserve uint64 // base units actually held by the token vault

	EffectiveSolReserve   uint64 // virtual SOL side used for pricing
	EffectiveTokenReserve uint64 // virtual token side used for pricing

	// Aggregate constant-product deltas contributed by open leveraged
	// positions, split by direction.
	TotalDeltaKLongs  uint64
	TotalDeltaKShorts uint64

	// FundingConstantC scales funding-rate sensitivity for this pool.
	FundingConstantC float64
}

// solHuman converts raw lamports to whole SOL.
func solHuman(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}

// tokenHuman converts raw base units to whole tokens.
func tokenHuman(units uint64) float64 {
	return float64(units) / TokenBaseUnits
}
