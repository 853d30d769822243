// =============================
// File: internal/oracle/oracle.go
// =============================

// Package oracle supplies the SOL/USD price the math core needs to
// express values in dollars.
package oracle

import "context"

// PriceSource yields the current SOL/USD price.
type PriceSource interface {
	CurrentSolUsdPrice(ctx context.Context) (float64, error)
}

// Static is a fixed-price source, used in tests and when the operator
// pins sol_price_usd in the config instead of pointing at an oracle
// account.
type Static struct {
	Price float64
}

func (s Static) CurrentSolUsdPrice(context.Context) (float64, error) {
	return s.Price, nil
}
