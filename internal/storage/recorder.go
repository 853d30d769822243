// internal/storage/recorder.go
package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/eldarkhamitov/levermon/internal/events"
	"github.com/eldarkhamitov/levermon/internal/storage/models"
)

// Recorder subscribes to the event bus and writes snapshots through
// the Storage interface.
type Recorder struct {
	store  Storage
	logger *zap.Logger
	subs   []events.Subscription
}

// NewRecorder builds a recorder; call Attach to start persisting.
func NewRecorder(store Storage, logger *zap.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.Named("recorder"),
	}
}

// Attach subscribes the recorder to metric and position events.
func (r *Recorder) Attach(bus *events.Bus) {
	r.subs = append(r.subs,
		bus.SubscribeFunc(events.MetricsUpdated, r.onMetrics),
		bus.SubscribeFunc(events.PositionUpdated, r.onPosition),
	)
}

// Detach removes all subscriptions.
func (r *Recorder) Detach() {
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
}

func (r *Recorder) onMetrics(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.MetricsUpdatedEvent)
	if !ok || ev.Pool == "" {
		return nil
	}

	snapshot := &models.PoolSnapshot{
		Pool:      ev.Pool,
		Label:     ev.Label,
		Price:     ev.Price,
		RealPrice: ev.RealPrice,
		MarketCap: ev.MarketCap,
		Liquidity: ev.Liquidity,
		SolUsd:    ev.SolUsd,
		TakenAt:   ev.Timestamp(),
	}
	if err := r.store.SavePoolSnapshot(ctx, snapshot); err != nil {
		r.logger.Error("failed to save pool snapshot", zap.Error(err))
		return err
	}

	sample := &models.FundingSample{
		Pool:         ev.Pool,
		Label:        ev.Label,
		PerSecond:    ev.Funding.PerSecond,
		PerDay:       ev.Funding.PerDay,
		PerAnnum:     ev.Funding.PerAnnum,
		DeltaKLongs:  ev.Reserves.TotalDeltaKLongs,
		DeltaKShorts: ev.Reserves.TotalDeltaKShorts,
		TakenAt:      ev.Timestamp(),
	}
	if err := r.store.SaveFundingSample(ctx, sample); err != nil {
		r.logger.Error("failed to save funding sample", zap.Error(err))
		return err
	}

	return nil
}

func (r *Recorder) onPosition(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.PositionUpdatedEvent)
	if !ok {
		return nil
	}

	snapshot := &models.PositionSnapshot{
		Pool:       ev.Pool,
		IsLong:     ev.Position.IsLong,
		Size:       ev.Position.Size,
		Collateral: ev.Position.Collateral,
		Leverage:   ev.Position.Leverage,
		EntryPrice: ev.EntryPrice,
		PnLPercent: ev.PnLPercent,
		TakenAt:    ev.Timestamp(),
	}
	if err := r.store.SavePositionSnapshot(ctx, snapshot); err != nil {
		r.logger.Error("failed to save position snapshot", zap.Error(err))
		return err
	}
	return nil
}
