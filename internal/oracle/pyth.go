// =============================
// File: internal/oracle/pyth.go
// =============================
package oracle

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/eldarkhamitov/levermon/internal/blockchain/solbc"
)

// Pyth v2 price account layout offsets.
const (
	pythMagic          = 0xa1b2c3d4
	pythMagicOffset    = 0
	pythExpoOffset     = 20
	pythAggPriceOffset = 208
	pythMinAccountLen  = 216
)

// PythSource reads SOL/USD from a Pyth price account over the same
// RPC client the pool fetcher uses. Prices are cached briefly so a
// multi-pool tick costs one oracle read.
type PythSource struct {
	client       *solbc.Client
	priceAccount solana.PublicKey
	logger       *zap.Logger

	mu         sync.Mutex
	cached     float64
	cachedTime time.Time
	cacheTTL   time.Duration
}

// NewPythSource creates a price source bound to one price account.
func NewPythSource(client *solbc.Client, priceAccount solana.PublicKey, logger *zap.Logger) *PythSource {
	return &PythSource{
		client:       client,
		priceAccount: priceAccount,
		logger:       logger.Named("pyth_oracle"),
		cacheTTL:     2 * time.Second,
	}
}

// CurrentSolUsdPrice returns the latest aggregate price.
func (p *PythSource) CurrentSolUsdPrice(ctx context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.cachedTime) < p.cacheTTL {
		return p.cached, nil
	}

	data, err := p.client.GetAccountData(ctx, p.priceAccount)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch price account: %w", err)
	}

	price, err := decodePythPrice(data)
	if err != nil {
		return 0, err
	}

	p.cached = price
	p.cachedTime = time.Now()
	p.logger.Debug("refreshed SOL/USD price", zap.Float64("price", price))

	return price, nil
}

// decodePythPrice extracts the aggregate price from a v2 account:
// price = aggPrice * 10^expo, with expo a signed 32-bit exponent.
func decodePythPrice(data []byte) (float64, error) {
	if len(data) < pythMinAccountLen {
		return 0, fmt.Errorf("insufficient price account data length: %d", len(data))
	}
	if binary.LittleEndian.Uint32(data[pythMagicOffset:]) != pythMagic {
		return 0, fmt.Errorf("not a pyth price account")
	}

	expo := int32(binary.LittleEndian.Uint32(data[pythExpoOffset:]))
	aggPrice := int64(binary.LittleEndian.Uint64(data[pythAggPriceOffset:]))

	return float64(aggPrice) * math.Pow10(int(expo)), nil
}
