// =============================
// File: internal/lever/layout.go
// =============================

// Package lever reads pool state of the lever on-chain program and
// maps it into amm.PoolReserves snapshots for the math core.
package lever

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/eldarkhamitov/levermon/internal/amm"
)

// LeverProgramID is the mainnet program id of the lever AMM.
var LeverProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

// Pool account layout: 8-byte anchor discriminator, then seven
// little-endian u64 fields.
const (
	poolDiscriminatorLen = 8
	poolFieldCount       = 7
	poolAccountMinLen    = poolDiscriminatorLen + poolFieldCount*8

	// FundingConstantC is stored as integer micro-units.
	fundingConstantScale = 1e6
)

// PoolDiscriminator identifies lever pool accounts.
var PoolDiscriminator = func() []byte {
	d := make([]byte, 8)
	binary.LittleEndian.PutUint64(d, 0x1b1e6a4f8c2d9e07)
	return d
}()

// decodePoolAccount parses raw pool account data into a reserves
// snapshot. Accounts whose discriminator does not match are rejected;
// field order matches the on-chain struct.
func decodePoolAccount(data []byte) (amm.PoolReserves, error) {
	if len(data) < poolAccountMinLen {
		return amm.PoolReserves{}, fmt.Errorf("insufficient pool account data length: %d", len(data))
	}
	if !bytes.Equal(data[:poolDiscriminatorLen], PoolDiscriminator) {
		return amm.PoolReserves{}, fmt.Errorf("not a lever pool account (discriminator %x)", data[:poolDiscriminatorLen])
	}

	u64 := func(i int) uint64 {
		off := poolDiscriminatorLen + i*8
		return binary.LittleEndian.Uint64(data[off : off+8])
	}

	return amm.PoolReserves{
		SolReserve:            u64(0),
		TokenReserve:          u64(1),
		EffectiveSolReserve:   u64(2),
		EffectiveTokenReserve: u64(3),
		TotalDeltaKLongs:      u64(4),
		TotalDeltaKShorts:     u64(5),
		FundingConstantC:      float64(u64(6)) / fundingConstantScale,
	}, nil
}
