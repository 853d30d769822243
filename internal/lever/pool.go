// =============================
// File: internal/lever/pool.go
// =============================
package lever

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/eldarkhamitov/levermon/internal/amm"
	"github.com/eldarkhamitov/levermon/internal/blockchain/solbc"
)

// PoolManagerInterface is the account-fetch collaborator consumed by
// the monitor: everything the math core needs and nothing else.
type PoolManagerInterface interface {
	FetchPoolReserves(ctx context.Context, pool solana.PublicKey) (amm.PoolReserves, error)
	FetchPoolReservesWithRetry(ctx context.Context, pool solana.PublicKey) (amm.PoolReserves, error)
	FetchAllPoolReserves(ctx context.Context, pools []solana.PublicKey) (map[solana.PublicKey]amm.PoolReserves, error)
}

// PoolManager fetches and caches lever pool state.
type PoolManager struct {
	client     *solbc.Client
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration

	cacheMu  sync.RWMutex
	cache    map[solana.PublicKey]cachedReserves
	cacheTTL time.Duration
}

type cachedReserves struct {
	reserves  amm.PoolReserves
	fetchedAt time.Time
}

// PoolManagerOptions configures retry and cache behavior.
type PoolManagerOptions struct {
	MaxRetries int
	RetryDelay time.Duration
	CacheTTL   time.Duration
}

// DefaultPoolManagerOptions returns the defaults used in production.
func DefaultPoolManagerOptions() PoolManagerOptions {
	return PoolManagerOptions{
		MaxRetries: 3,
		RetryDelay: time.Second,
		CacheTTL:   500 * time.Millisecond,
	}
}

// NewPoolManager creates a PoolManager with the given options.
func NewPoolManager(client *solbc.Client, logger *zap.Logger, opts ...PoolManagerOptions) *PoolManager {
	options := DefaultPoolManagerOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	return &PoolManager{
		client:     client,
		logger:     logger.Named("pool_manager"),
		maxRetries: options.MaxRetries,
		retryDelay: options.RetryDelay,
		cache:      make(map[solana.PublicKey]cachedReserves),
		cacheTTL:   options.CacheTTL,
	}
}

// validatePoolAccount rejects accounts owned by another program before
// any field decoding happens.
func validatePoolAccount(pool solana.PublicKey, account *rpc.Account) error {
	if account == nil {
		return fmt.Errorf("pool account %s: %w", pool.String(), solbc.ErrAccountNotFound)
	}
	if !account.Owner.Equals(LeverProgramID) {
		return fmt.Errorf("account %s is not owned by the lever program (owner %s)",
			pool.String(), account.Owner.String())
	}
	return nil
}

// FetchPoolReserves returns a fresh reserves snapshot for the pool,
// serving from the short-lived cache when the last fetch is recent
// enough for monitoring purposes.
func (pm *PoolManager) FetchPoolReserves(ctx context.Context, pool solana.PublicKey) (amm.PoolReserves, error) {
	pm.cacheMu.RLock()
	if entry, ok := pm.cache[pool]; ok && time.Since(entry.fetchedAt) < pm.cacheTTL {
		pm.cacheMu.RUnlock()
		return entry.reserves, nil
	}
	pm.cacheMu.RUnlock()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	info, err := pm.client.GetAccountInfo(cctx, pool)
	if err != nil {
		return amm.PoolReserves{}, fmt.Errorf("failed to fetch pool account %s: %w", pool.String(), err)
	}
	var account *rpc.Account
	if info != nil {
		account = info.Value
	}
	if err := validatePoolAccount(pool, account); err != nil {
		return amm.PoolReserves{}, err
	}

	reserves, err := decodePoolAccount(account.Data.GetBinary())
	if err != nil {
		return amm.PoolReserves{}, fmt.Errorf("failed to decode pool account %s: %w", pool.String(), err)
	}

	pm.cacheMu.Lock()
	pm.cache[pool] = cachedReserves{reserves: reserves, fetchedAt: time.Now()}
	pm.cacheMu.Unlock()

	pm.logger.Debug("fetched pool reserves",
		zap.String("pool", pool.String()),
		zap.Uint64("sol_reserve", reserves.SolReserve),
		zap.Uint64("token_reserve", reserves.TokenReserve),
		zap.Uint64("effective_sol", reserves.EffectiveSolReserve),
		zap.Uint64("effective_token", reserves.EffectiveTokenReserve))

	return reserves, nil
}

// FetchPoolReservesWithRetry wraps FetchPoolReserves in exponential
// backoff for transient RPC failures.
func (pm *PoolManager) FetchPoolReservesWithRetry(ctx context.Context, pool solana.PublicKey) (amm.PoolReserves, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = pm.retryDelay
	policy.MaxInterval = pm.retryDelay * 10

	notify := func(err error, duration time.Duration) {
		pm.logger.Info("retrying pool fetch after error",
			zap.String("pool", pool.String()),
			zap.Error(err),
			zap.Duration("backoff", duration))
	}

	operation := func() (amm.PoolReserves, error) {
		return pm.FetchPoolReserves(ctx, pool)
	}

	reserves, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(pm.maxRetries)),
		backoff.WithNotify(notify))
	if err != nil {
		pm.logger.Error("pool fetch failed after all retries",
			zap.String("pool", pool.String()),
			zap.Error(err))
		return amm.PoolReserves{}, err
	}

	return reserves, nil
}

// FetchAllPoolReserves fetches every watched pool in one batched RPC
// request, retried as a unit. A single bad account fails the whole
// batch; the monitor treats a tick as all-or-nothing.
func (pm *PoolManager) FetchAllPoolReserves(ctx context.Context, pools []solana.PublicKey) (map[solana.PublicKey]amm.PoolReserves, error) {
	if len(pools) == 0 {
		return map[solana.PublicKey]amm.PoolReserves{}, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = pm.retryDelay
	policy.MaxInterval = pm.retryDelay * 10

	operation := func() (*rpc.GetMultipleAccountsResult, error) {
		return pm.client.GetMultipleAccounts(cctx, pools)
	}

	res, err := backoff.Retry(cctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(pm.maxRetries)))
	if err != nil {
		pm.logger.Error("batch pool fetch failed after all retries", zap.Error(err))
		return nil, err
	}
	if len(res.Value) != len(pools) {
		return nil, fmt.Errorf("batch fetch returned %d accounts for %d pools", len(res.Value), len(pools))
	}

	out := make(map[solana.PublicKey]amm.PoolReserves, len(pools))
	for i, account := range res.Value {
		pool := pools[i]
		if err := validatePoolAccount(pool, account); err != nil {
			return nil, err
		}
		reserves, err := decodePoolAccount(account.Data.GetBinary())
		if err != nil {
			return nil, fmt.Errorf("failed to decode pool account %s: %w", pool.String(), err)
		}
		out[pool] = reserves
	}

	now := time.Now()
	pm.cacheMu.Lock()
	for pool, reserves := range out {
		pm.cache[pool] = cachedReserves{reserves: reserves, fetchedAt: now}
	}
	pm.cacheMu.Unlock()

	return out, nil
}

var _ PoolManagerInterface = (*PoolManager)(nil)
