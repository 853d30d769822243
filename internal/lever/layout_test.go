package lever

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePoolAccount(fields [poolFieldCount]uint64) []byte {
	data := make([]byte, poolAccountMinLen)
	copy(data, PoolDiscriminator)
	for i, v := range fields {
		binary.LittleEndian.PutUint64(data[poolDiscriminatorLen+i*8:], v)
	}
	return data
}

func TestDecodePoolAccount(t *testing.T) {
	data := encodePoolAccount([poolFieldCount]uint64{
		850_000_000_000,     // sol vault
		900_000_000_000,     // token vault
		1_000_000_000_000,   // effective sol
		1_000_000_000_000,   // effective token
		5_000_000,           // delta-K longs
		3_000_000,           // delta-K shorts
		2_500_000,           // funding constant, micro-units
	})

	r, err := decodePoolAccount(data)
	require.NoError(t, err)

	assert.Equal(t, uint64(850_000_000_000), r.SolReserve)
	assert.Equal(t, uint64(900_000_000_000), r.TokenReserve)
	assert.Equal(t, uint64(1_000_000_000_000), r.EffectiveSolReserve)
	assert.Equal(t, uint64(1_000_000_000_000), r.EffectiveTokenReserve)
	assert.Equal(t, uint64(5_000_000), r.TotalDeltaKLongs)
	assert.Equal(t, uint64(3_000_000), r.TotalDeltaKShorts)
	assert.InDelta(t, 2.5, r.FundingConstantC, 1e-12)
}

func TestDecodePoolAccount_WrongDiscriminator(t *testing.T) {
	// A foreign account of valid length must not decode into reserves.
	data := encodePoolAccount([poolFieldCount]uint64{1, 2, 3, 4, 5, 6, 7})
	binary.LittleEndian.PutUint64(data[:poolDiscriminatorLen], 0xdeadbeefdeadbeef)

	_, err := decodePoolAccount(data)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a lever pool account")
}

func TestDecodePoolAccount_TruncatedData(t *testing.T) {
	data := encodePoolAccount([poolFieldCount]uint64{})

	_, err := decodePoolAccount(data[:poolAccountMinLen-1])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient pool account data")
}

func TestDecodePoolAccount_TrailingBytesIgnored(t *testing.T) {
	// On-chain accounts carry padding after the known fields; the
	// decoder must only require the prefix.
	data := append(encodePoolAccount([poolFieldCount]uint64{1, 2, 3, 4, 5, 6, 7}), make([]byte, 32)...)

	r, err := decodePoolAccount(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.SolReserve)
	assert.InDelta(t, 7.0/1e6, r.FundingConstantC, 1e-18)
}
