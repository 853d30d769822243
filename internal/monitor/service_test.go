package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eldarkhamitov/levermon/internal/amm"
	"github.com/eldarkhamitov/levermon/internal/events"
	"github.com/eldarkhamitov/levermon/internal/oracle"
)

// fakePoolManager serves canned reserves without touching RPC.
type fakePoolManager struct {
	reserves map[solana.PublicKey]amm.PoolReserves
}

func (f *fakePoolManager) FetchPoolReserves(_ context.Context, pool solana.PublicKey) (amm.PoolReserves, error) {
	return f.reserves[pool], nil
}

func (f *fakePoolManager) FetchPoolReservesWithRetry(ctx context.Context, pool solana.PublicKey) (amm.PoolReserves, error) {
	return f.FetchPoolReserves(ctx, pool)
}

func (f *fakePoolManager) FetchAllPoolReserves(_ context.Context, pools []solana.PublicKey) (map[solana.PublicKey]amm.PoolReserves, error) {
	out := make(map[solana.PublicKey]amm.PoolReserves, len(pools))
	for _, p := range pools {
		if r, ok := f.reserves[p]; ok {
			out[p] = r
		}
	}
	return out, nil
}

func healthyReserves() amm.PoolReserves {
	return amm.PoolReserves{
		SolReserve:            850 * amm.LamportsPerSol,
		TokenReserve:          900_000 * amm.TokenBaseUnits,
		EffectiveSolReserve:   1000 * amm.LamportsPerSol,
		EffectiveTokenReserve: 1_000_000 * amm.TokenBaseUnits,
	}
}

func waitForEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestTick_PublishesPoolMetrics(t *testing.T) {
	poolAddr := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	bus := events.NewBus(zap.NewNop(), 16)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	got := make(chan events.Event, 4)
	bus.SubscribeFunc(events.MetricsUpdated, func(_ context.Context, e events.Event) error {
		got <- e
		return nil
	})

	svc := NewService(
		Config{
			Pools:    []WatchedPool{{Address: poolAddr, Label: "LEVER/SOL"}},
			Interval: time.Second,
			Alerts:   DefaultAlertThresholds(),
		},
		&fakePoolManager{reserves: map[solana.PublicKey]amm.PoolReserves{poolAddr: healthyReserves()}},
		oracle.Static{Price: 150},
		bus,
		zap.NewNop(),
	)

	svc.tick(context.Background())

	ev := waitForEvent(t, got).(events.MetricsUpdatedEvent)
	assert.Equal(t, "LEVER/SOL", ev.Label)
	assert.InDelta(t, 0.001, ev.Price, 1e-12)
	assert.InDelta(t, 850.0/900_000, ev.RealPrice, 1e-12)
	assert.InDelta(t, 1_000_000_000*0.001*150, ev.MarketCap, 1e-3)
	assert.InDelta(t, 1000*2*150.0, ev.Liquidity, 1e-6)
}

func TestTick_SkipsEmptyPool(t *testing.T) {
	poolAddr := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	bus := events.NewBus(zap.NewNop(), 16)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	got := make(chan events.Event, 4)
	bus.SubscribeFunc(events.MetricsUpdated, func(_ context.Context, e events.Event) error {
		got <- e
		return nil
	})

	empty := healthyReserves()
	empty.EffectiveTokenReserve = 0

	svc := NewService(
		Config{
			Pools:    []WatchedPool{{Address: poolAddr, Label: "EMPTY"}},
			Interval: time.Second,
		},
		&fakePoolManager{reserves: map[solana.PublicKey]amm.PoolReserves{poolAddr: empty}},
		oracle.Static{Price: 150},
		bus,
		zap.NewNop(),
	)

	svc.tick(context.Background())

	select {
	case ev := <-got:
		t.Fatalf("no metrics expected for an empty pool, got %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTick_MarksWatchedPositions(t *testing.T) {
	poolAddr := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	bus := events.NewBus(zap.NewNop(), 16)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	got := make(chan events.Event, 4)
	bus.SubscribeFunc(events.PositionUpdated, func(_ context.Context, e events.Event) error {
		got <- e
		return nil
	})

	reserves := healthyReserves()
	position := amm.Position{
		IsLong:     true,
		Size:       10_000 * amm.TokenBaseUnits,
		Collateral: 10 * amm.LamportsPerSol,
		Leverage:   1.0,
	}

	svc := NewService(
		Config{
			Pools:     []WatchedPool{{Address: poolAddr, Label: "LEVER/SOL"}},
			Positions: []WatchedPosition{{Pool: poolAddr, Position: position}},
			Interval:  time.Second,
		},
		&fakePoolManager{reserves: map[solana.PublicKey]amm.PoolReserves{poolAddr: reserves}},
		oracle.Static{Price: 150},
		bus,
		zap.NewNop(),
	)

	svc.tick(context.Background())

	ev := waitForEvent(t, got).(events.PositionUpdatedEvent)
	require.Equal(t, poolAddr.String(), ev.Pool)
	assert.InDelta(t, position.PnL(reserves, 150), ev.PnLPercent, 1e-12)
	assert.InDelta(t, position.EntryPrice(150), ev.EntryPrice, 1e-12)
}
