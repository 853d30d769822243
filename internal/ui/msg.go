package ui

import "github.com/eldarkhamitov/levermon/internal/events"

// Tea message types bridging bus events into the dashboard.

// MetricsMsg carries one pool's refreshed metrics.
type MetricsMsg struct {
	Event events.MetricsUpdatedEvent
}

// FundingAlertMsg carries a funding-rate alert.
type FundingAlertMsg struct {
	Event events.FundingAlertEvent
}

// PriceAlertMsg carries a price-move alert.
type PriceAlertMsg struct {
	Event events.PriceAlertEvent
}

// PositionMsg carries a watched position's refreshed mark.
type PositionMsg struct {
	Event events.PositionUpdatedEvent
}
