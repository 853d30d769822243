package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1_500_000, "$1.50M"},
		{999, "$999.00"},
		{2_500_000_000, "$2.50B"},
		{1_250, "$1.25K"},
		{0, "$0.00"},
		{999_999, "$1000.00K"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatUSD(tc.in), "FormatUSD(%v)", tc.in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "2.50B", FormatAmount(2_500_000_000))
	assert.Equal(t, "1.50M", FormatAmount(1_500_000))
	assert.Equal(t, "42.00", FormatAmount(42))
}

func TestFormat_RoundsHalfAwayFromZero(t *testing.T) {
	// 0.125 is exactly representable in binary; banker's rounding
	// would print 0.12 here.
	assert.Equal(t, "0.13", FormatAmount(0.125))
	assert.Equal(t, "-0.13", FormatAmount(-0.125))
	assert.Equal(t, "0.38", FormatAmount(0.375))
}
