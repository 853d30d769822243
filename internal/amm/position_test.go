package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryPrice_Long(t *testing.T) {
	p := Position{
		IsLong:     true,
		Size:       100_000 * TokenBaseUnits, // 100k tokens
		Collateral: 50 * LamportsPerSol,      // 50 SOL
		Leverage:   2.0,
	}
	solUsd := 150.0

	// rate = (collateral * leverage) / (size * 1e3), then USD.
	rate := (float64(p.Collateral) * 2.0) / (float64(p.Size) * 1e3)
	assert.InDelta(t, rate*solUsd, p.EntryPrice(solUsd), 1e-12)
	t.Logf("long entry: $%.6f", p.EntryPrice(solUsd))
}

func TestEntryPrice_ShortIsReciprocal(t *testing.T) {
	long := Position{IsLong: true, Size: 100_000 * TokenBaseUnits, Collateral: 50 * LamportsPerSol, Leverage: 2.0}
	short := Position{IsLong: false, Size: 100_000 * TokenBaseUnits, Collateral: 50 * LamportsPerSol, Leverage: 2.0}

	solUsd := 1.0
	assert.InEpsilon(t, 1/long.EntryPrice(solUsd), short.EntryPrice(solUsd), 1e-12)
}

func TestPnL_LongAtLeverageOne(t *testing.T) {
	r := testReserves()
	solUsd := 150.0

	p := Position{
		IsLong:     true,
		Size:       10_000 * TokenBaseUnits,
		Collateral: 10 * LamportsPerSol,
		Leverage:   1.0,
	}

	// With no borrowing the formula must collapse to plain
	// (expectedSol - collateralSol) / collateralSol.
	expectedSol := r.ExpectedOutput(10_000, false)
	want := ((expectedSol - 10.0) / 10.0) * 100

	assert.InDelta(t, want, p.PnL(r, solUsd), 1e-9)
	t.Logf("expected SOL: %.6f, pnl: %.4f%%", expectedSol, p.PnL(r, solUsd))
}

func TestPnL_LongBorrowedLegNotRevalued(t *testing.T) {
	r := testReserves()
	solUsd := 100.0

	p := Position{
		IsLong:     true,
		Size:       10_000 * TokenBaseUnits,
		Collateral: 5 * LamportsPerSol,
		Leverage:   2.0,
	}

	expectedSol := r.ExpectedOutput(10_000, false)
	borrowed := 5.0 * (2.0 - 1) // SOL, repaid at face value
	outputUsd := (expectedSol - borrowed) * solUsd
	collateralUsd := 5.0 * solUsd
	want := ((outputUsd - collateralUsd) / collateralUsd) * 100

	assert.InDelta(t, want, p.PnL(r, solUsd), 1e-9)
}

func TestPnL_ShortValuedAtEffectivePrice(t *testing.T) {
	// Skew real reserves away from effective ones so a wrong price
	// source would show up.
	r := testReserves()
	r.SolReserve = 1 * LamportsPerSol
	r.TokenReserve = 1 * TokenBaseUnits
	solUsd := 150.0

	p := Position{
		IsLong:     false,
		Size:       20 * LamportsPerSol,          // 20 SOL notional
		Collateral: 10_000 * TokenBaseUnits,      // token collateral
		Leverage:   3.0,
	}

	expectedToken := r.ExpectedOutput(20, true)
	borrowedToken := 10_000.0 * (3.0 - 1)
	poolPrice := r.Price() // effective, not vault
	outputUsd := (expectedToken - borrowedToken) * poolPrice * solUsd
	collateralUsd := 10_000.0 * poolPrice * solUsd
	want := ((outputUsd - collateralUsd) / collateralUsd) * 100

	assert.InDelta(t, want, p.PnL(r, solUsd), 1e-9)
	t.Logf("short pnl: %.4f%%", p.PnL(r, solUsd))
}

func TestPnL_ZeroCollateral(t *testing.T) {
	r := testReserves()

	p := Position{IsLong: true, Size: 1000 * TokenBaseUnits, Collateral: 0, Leverage: 2.0}
	assert.Equal(t, 0.0, p.PnL(r, 150.0))

	// Zero oracle price also zeroes collateral USD.
	p.Collateral = 10 * LamportsPerSol
	assert.Equal(t, 0.0, p.PnL(r, 0))
}
