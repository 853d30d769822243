// internal/events/types.go

// Package events is the in-process pub/sub spine between the monitor,
// the snapshot recorder and the dashboard.
package events

import (
	"context"
	"time"

	"github.com/eldarkhamitov/levermon/internal/amm"
)

// EventType represents the type of event.
type EventType string

const (
	// Pool metric events
	MetricsUpdated EventType = "pool.metrics_updated"

	// Alert events
	FundingAlertRaised EventType = "alert.funding"
	PriceAlertRaised   EventType = "alert.price"

	// Position events
	PositionUpdated EventType = "position.updated"

	// Monitoring lifecycle
	MonitoringStarted EventType = "monitoring.started"
	MonitoringStopped EventType = "monitoring.stopped"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent(t EventType) BaseEvent {
	return BaseEvent{EventType: t, EventTime: time.Now()}
}

// MetricsUpdatedEvent carries one computed snapshot for one pool.
type MetricsUpdatedEvent struct {
	BaseEvent
	Pool      string
	Label     string
	Reserves  amm.PoolReserves
	SolUsd    float64
	Price     float64
	RealPrice float64
	MarketCap float64
	Liquidity float64
	Funding   amm.FundingRate
}

// FundingAlertEvent fires when a pool's daily funding rate crosses
// the configured threshold.
type FundingAlertEvent struct {
	BaseEvent
	Pool          string
	Label         string
	FundingPerDay float64
	Threshold     float64
}

// PriceAlertEvent fires on a large move since the previous tick.
type PriceAlertEvent struct {
	BaseEvent
	Pool          string
	Label         string
	Price         float64
	PreviousPrice float64
	MovePercent   float64
	Threshold     float64
}

// PositionUpdatedEvent carries a watched position's mark-to-curve P&L.
type PositionUpdatedEvent struct {
	BaseEvent
	Pool       string
	Label      string
	Position   amm.Position
	EntryPrice float64
	PnLPercent float64
}

// Handler processes a single event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Subscription represents an active handler registration.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	id       string
	eventBus *Bus
	typ      EventType
}

func (s *subscription) Unsubscribe() {
	s.eventBus.unsubscribe(s.id, s.typ)
}
