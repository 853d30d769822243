// =============================
// File: internal/amm/format.go
// =============================
package amm

import (
	"math"
	"strconv"
)

// round2 rounds to 2 fractional digits, half away from zero, matching
// conventional currency display. strconv's own rounding is half-even,
// which shows $0.01 discrepancies on exact midpoints.
func round2(v float64) float64 {
	return math.Trunc(v*100+math.Copysign(0.5, v)) / 100
}

// formatSuffixed reduces a magnitude to a B/M/K-suffixed string with
// two decimals.
func formatSuffixed(v float64) string {
	switch {
	case v >= 1e9:
		return strconv.FormatFloat(round2(v/1e9), 'f', 2, 64) + "B"
	case v >= 1e6:
		return strconv.FormatFloat(round2(v/1e6), 'f', 2, 64) + "M"
	case v >= 1e3:
		return strconv.FormatFloat(round2(v/1e3), 'f', 2, 64) + "K"
	default:
		return strconv.FormatFloat(round2(v), 'f', 2, 64)
	}
}

// FormatUSD renders a USD value like "$1.50M".
func FormatUSD(v float64) string {
	return "$" + formatSuffixed(v)
}

// FormatAmount renders a plain magnitude like "2.50B".
func FormatAmount(v float64) string {
	return formatSuffixed(v)
}
