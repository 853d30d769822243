package lever

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"

	"github.com/eldarkhamitov/levermon/internal/blockchain/solbc"
)

func TestValidatePoolAccount(t *testing.T) {
	pool := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	err := validatePoolAccount(pool, nil)
	assert.ErrorIs(t, err, solbc.ErrAccountNotFound)

	// Owned by some other program: rejected before decoding.
	err = validatePoolAccount(pool, &rpc.Account{Owner: pool})
	assert.ErrorContains(t, err, "not owned by the lever program")

	assert.NoError(t, validatePoolAccount(pool, &rpc.Account{Owner: LeverProgramID}))
}
