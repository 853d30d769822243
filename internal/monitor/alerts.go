// internal/monitor/alerts.go
package monitor

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eldarkhamitov/levermon/internal/amm"
	"github.com/eldarkhamitov/levermon/internal/events"
)

// AlertThresholds configures when alerts fire, in percent.
type AlertThresholds struct {
	FundingPerDayPercent float64
	PriceMovePercent     float64
	Cooldown             time.Duration
}

// DefaultAlertThresholds returns sane production thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		FundingPerDayPercent: 1.0,
		PriceMovePercent:     10.0,
		Cooldown:             5 * time.Minute,
	}
}

// Alerter evaluates thresholds and publishes alert events, with a
// per-pool cooldown so a sustained breach doesn't spam the bus.
type Alerter struct {
	thresholds AlertThresholds
	bus        *events.Bus
	logger     *zap.Logger

	mu        sync.Mutex
	lastFired map[string]time.Time // pool label + alert kind
}

// NewAlerter builds an Alerter. A zero cooldown falls back to the
// default.
func NewAlerter(thresholds AlertThresholds, bus *events.Bus, logger *zap.Logger) *Alerter {
	if thresholds.Cooldown == 0 {
		thresholds.Cooldown = DefaultAlertThresholds().Cooldown
	}
	return &Alerter{
		thresholds: thresholds,
		bus:        bus,
		logger:     logger.Named("alerter"),
		lastFired:  make(map[string]time.Time),
	}
}

// CheckFunding fires when the daily funding rate crosses the limit.
func (a *Alerter) CheckFunding(pool WatchedPool, funding amm.FundingRate) {
	if a.thresholds.FundingPerDayPercent <= 0 {
		return
	}
	if funding.PerDay < a.thresholds.FundingPerDayPercent {
		return
	}
	if !a.shouldFire(pool.Label + "/funding") {
		return
	}

	a.logger.Warn("funding rate above threshold",
		zap.String("pool", pool.Label),
		zap.Float64("funding_per_day_pct", funding.PerDay),
		zap.Float64("threshold_pct", a.thresholds.FundingPerDayPercent))

	_ = a.bus.Publish(events.FundingAlertEvent{
		BaseEvent:     events.NewBaseEvent(events.FundingAlertRaised),
		Pool:          pool.Address.String(),
		Label:         pool.Label,
		FundingPerDay: funding.PerDay,
		Threshold:     a.thresholds.FundingPerDayPercent,
	})
}

// CheckPriceMove fires on a large single-tick effective-price move,
// in either direction.
func (a *Alerter) CheckPriceMove(pool WatchedPool, price, previous float64) {
	if a.thresholds.PriceMovePercent <= 0 || previous == 0 {
		return
	}

	move := ((price - previous) / previous) * 100
	if math.Abs(move) < a.thresholds.PriceMovePercent {
		return
	}
	if !a.shouldFire(pool.Label + "/price") {
		return
	}

	a.logger.Warn("large price move",
		zap.String("pool", pool.Label),
		zap.Float64("move_pct", move),
		zap.Float64("price", price),
		zap.Float64("previous", previous))

	_ = a.bus.Publish(events.PriceAlertEvent{
		BaseEvent:     events.NewBaseEvent(events.PriceAlertRaised),
		Pool:          pool.Address.String(),
		Label:         pool.Label,
		Price:         price,
		PreviousPrice: previous,
		MovePercent:   move,
		Threshold:     a.thresholds.PriceMovePercent,
	})
}

func (a *Alerter) shouldFire(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	if last, ok := a.lastFired[key]; ok && now.Sub(last) < a.thresholds.Cooldown {
		return false
	}
	a.lastFired[key] = now
	return true
}
