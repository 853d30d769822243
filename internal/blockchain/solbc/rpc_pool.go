// internal/blockchain/solbc/rpc_pool.go
package solbc

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// RPCPool round-robins requests across the configured RPC endpoints.
type RPCPool struct {
	clients []*rpc.Client
	urls    []string
	mutex   sync.Mutex
	index   int
	logger  *zap.Logger
}

// NewRPCPool builds a pool from the config's rpc_list.
func NewRPCPool(rpcList []string, logger *zap.Logger) *RPCPool {
	clients := make([]*rpc.Client, 0, len(rpcList))
	for _, url := range rpcList {
		clients = append(clients, rpc.New(url))
	}

	return &RPCPool{
		clients: clients,
		urls:    rpcList,
		logger:  logger.Named("rpc_pool"),
	}
}

// Next returns the next client in round-robin order.
func (p *RPCPool) Next() *rpc.Client {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	client := p.clients[p.index]
	p.index = (p.index + 1) % len(p.clients)
	return client
}

// Size returns the number of endpoints currently in rotation.
func (p *RPCPool) Size() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.clients)
}

// checkHealth probes a single endpoint with a short timeout.
func (p *RPCPool) checkHealth(client *rpc.Client) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	return err == nil
}

// PerformHealthChecks drops unreachable endpoints from rotation. The
// last endpoint is never removed so the pool can limp along on a
// degraded node rather than go empty.
func (p *RPCPool) PerformHealthChecks() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i := len(p.clients) - 1; i >= 0; i-- {
		if len(p.clients) == 1 {
			break
		}
		if !p.checkHealth(p.clients[i]) {
			p.logger.Warn("RPC endpoint unhealthy, removing from pool",
				zap.String("url", p.urls[i]))
			p.clients = append(p.clients[:i], p.clients[i+1:]...)
			p.urls = append(p.urls[:i], p.urls[i+1:]...)
			if p.index >= len(p.clients) {
				p.index = 0
			}
		}
	}
}
