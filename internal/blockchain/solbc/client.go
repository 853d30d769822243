// internal/blockchain/solbc/client.go

// Package solbc is a thin read-only adapter over solana-go's RPC
// client. levermon never signs or sends transactions, so the surface
// is limited to account reads.
package solbc

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmptyRPCList    = errors.New("empty RPC list")
)

// IsAccountNotFoundError reports whether err looks like a missing
// account, across the several shapes the RPC layer returns it in.
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAccountNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// Client wraps an RPC pool with logging and commitment defaults.
type Client struct {
	pool   *RPCPool
	logger *zap.Logger
}

// NewClient validates the endpoint list and builds a pooled client.
func NewClient(rpcList []string, logger *zap.Logger) (*Client, error) {
	if len(rpcList) == 0 {
		return nil, ErrEmptyRPCList
	}
	for _, rpcURL := range rpcList {
		if _, err := url.Parse(rpcURL); err != nil {
			return nil, errors.New("invalid RPC URL: " + rpcURL)
		}
	}

	return &Client{
		pool:   NewRPCPool(rpcList, logger),
		logger: logger.Named("solbc_client"),
	}, nil
}

// GetAccountInfo fetches a single account at confirmed commitment.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	result, err := c.pool.Next().GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetAccountData returns the raw binary payload of an account, mapping
// missing accounts to ErrAccountNotFound.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	info, err := c.GetAccountInfo(ctx, pubkey)
	if err != nil {
		return nil, err
	}
	if info == nil || info.Value == nil {
		return nil, ErrAccountNotFound
	}
	return info.Value.Data.GetBinary(), nil
}

// GetMultipleAccounts fetches several accounts in one request.
func (c *Client) GetMultipleAccounts(ctx context.Context, pubkeys []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	if len(pubkeys) == 0 {
		return &rpc.GetMultipleAccountsResult{}, nil
	}

	res, err := c.pool.Next().GetMultipleAccountsWithOpts(ctx, pubkeys, &rpc.GetMultipleAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// HealthCheck prunes dead endpoints and reports the pool size left.
func (c *Client) HealthCheck() int {
	c.pool.PerformHealthChecks()
	return c.pool.Size()
}
