// internal/monitor/service.go

// Package monitor runs the polling loop: fetch pool state, run the
// math core, publish metrics and alerts on the event bus.
package monitor

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/eldarkhamitov/levermon/internal/amm"
	"github.com/eldarkhamitov/levermon/internal/blockchain/solbc"
	"github.com/eldarkhamitov/levermon/internal/events"
	"github.com/eldarkhamitov/levermon/internal/lever"
	"github.com/eldarkhamitov/levermon/internal/oracle"
)

// WatchedPool is one pool under monitoring.
type WatchedPool struct {
	Address solana.PublicKey
	Label   string
}

// WatchedPosition is a position marked against its pool every tick.
type WatchedPosition struct {
	Pool     solana.PublicKey
	Position amm.Position
}

// Config holds the service's runtime parameters.
type Config struct {
	Pools     []WatchedPool
	Positions []WatchedPosition
	Interval  time.Duration
	Alerts    AlertThresholds
}

// Service drives the periodic monitoring tick.
type Service struct {
	cfg     Config
	pools   lever.PoolManagerInterface
	prices  oracle.PriceSource
	bus     *events.Bus
	logger  *zap.Logger
	alerter *Alerter

	// previous effective price per pool, for move detection
	lastPrice map[solana.PublicKey]float64
}

// NewService wires the monitor against its collaborators.
func NewService(cfg Config, pools lever.PoolManagerInterface, prices oracle.PriceSource, bus *events.Bus, logger *zap.Logger) *Service {
	return &Service{
		cfg:       cfg,
		pools:     pools,
		prices:    prices,
		bus:       bus,
		logger:    logger.Named("monitor"),
		alerter:   NewAlerter(cfg.Alerts, bus, logger),
		lastPrice: make(map[solana.PublicKey]float64),
	}
}

// Run ticks until the context is cancelled. The first tick fires
// immediately so startup is not blind for a full interval.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("starting monitor",
		zap.Int("pools", len(s.cfg.Pools)),
		zap.Int("positions", len(s.cfg.Positions)),
		zap.Duration("interval", s.cfg.Interval))

	_ = s.bus.Publish(events.NewBaseEvent(events.MonitoringStarted))

	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("monitor stopped")
			_ = s.bus.Publish(events.NewBaseEvent(events.MonitoringStopped))
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one full monitoring pass. Errors are logged, not
// returned: a failed tick is retried on the next interval.
func (s *Service) tick(ctx context.Context) {
	tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	solUsd, err := s.prices.CurrentSolUsdPrice(tctx)
	if err != nil {
		s.logger.Error("failed to get SOL/USD price", zap.Error(err))
		return
	}

	addrs := make([]solana.PublicKey, 0, len(s.cfg.Pools))
	for _, p := range s.cfg.Pools {
		addrs = append(addrs, p.Address)
	}

	reserves, err := s.pools.FetchAllPoolReserves(tctx, addrs)
	if err != nil {
		// A vanished account is a config problem, not a transient RPC one.
		if solbc.IsAccountNotFoundError(err) {
			s.logger.Error("a watched pool account no longer exists", zap.Error(err))
		} else {
			s.logger.Error("failed to fetch pool reserves", zap.Error(err))
		}
		return
	}

	for _, pool := range s.cfg.Pools {
		r, ok := reserves[pool.Address]
		if !ok {
			continue
		}
		s.processPool(pool, r, solUsd)
	}

	for _, wp := range s.cfg.Positions {
		r, ok := reserves[wp.Pool]
		if !ok {
			continue
		}
		s.processPosition(wp, r, solUsd)
	}
}

func (s *Service) processPool(pool WatchedPool, r amm.PoolReserves, solUsd float64) {
	// The effective-price path is unguarded by design; an empty pool
	// is skipped here so non-finite values never reach the bus.
	if r.EffectiveTokenReserve == 0 {
		s.logger.Warn("skipping pool with zero effective token reserve",
			zap.String("pool", pool.Address.String()),
			zap.String("label", pool.Label))
		return
	}

	price := r.Price()
	funding := r.FundingRate()

	ev := events.MetricsUpdatedEvent{
		BaseEvent: events.NewBaseEvent(events.MetricsUpdated),
		Pool:      pool.Address.String(),
		Label:     pool.Label,
		Reserves:  r,
		SolUsd:    solUsd,
		Price:     price,
		RealPrice: r.RealPrice(),
		MarketCap: r.MarketCap(solUsd),
		Liquidity: r.Liquidity(solUsd),
		Funding:   funding,
	}
	_ = s.bus.Publish(ev)

	s.logger.Debug("pool metrics",
		zap.String("label", pool.Label),
		zap.Float64("price", price),
		zap.String("market_cap", amm.FormatUSD(ev.MarketCap)),
		zap.String("liquidity", amm.FormatUSD(ev.Liquidity)),
		zap.Float64("funding_per_day_pct", funding.PerDay))

	s.alerter.CheckFunding(pool, funding)
	if last, ok := s.lastPrice[pool.Address]; ok {
		s.alerter.CheckPriceMove(pool, price, last)
	}
	s.lastPrice[pool.Address] = price
}

func (s *Service) processPosition(wp WatchedPosition, r amm.PoolReserves, solUsd float64) {
	pnl := wp.Position.PnL(r, solUsd)

	_ = s.bus.Publish(events.PositionUpdatedEvent{
		BaseEvent:  events.NewBaseEvent(events.PositionUpdated),
		Pool:       wp.Pool.String(),
		Position:   wp.Position,
		EntryPrice: wp.Position.EntryPrice(solUsd),
		PnLPercent: pnl,
	})

	s.logger.Debug("position marked",
		zap.String("pool", wp.Pool.String()),
		zap.Bool("is_long", wp.Position.IsLong),
		zap.Float64("leverage", wp.Position.Leverage),
		zap.Float64("pnl_percent", pnl))
}
