package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eldarkhamitov/levermon/internal/events"
)

// Bridge forwards bus events into a running bubbletea program.
type Bridge struct {
	program *tea.Program
	subs    []events.Subscription
}

// NewBridge attaches to the bus and starts forwarding immediately.
func NewBridge(program *tea.Program, bus *events.Bus) *Bridge {
	b := &Bridge{program: program}

	b.subs = append(b.subs,
		bus.SubscribeFunc(events.MetricsUpdated, func(_ context.Context, e events.Event) error {
			if ev, ok := e.(events.MetricsUpdatedEvent); ok {
				b.program.Send(MetricsMsg{Event: ev})
			}
			return nil
		}),
		bus.SubscribeFunc(events.PositionUpdated, func(_ context.Context, e events.Event) error {
			if ev, ok := e.(events.PositionUpdatedEvent); ok {
				b.program.Send(PositionMsg{Event: ev})
			}
			return nil
		}),
		bus.SubscribeFunc(events.FundingAlertRaised, func(_ context.Context, e events.Event) error {
			if ev, ok := e.(events.FundingAlertEvent); ok {
				b.program.Send(FundingAlertMsg{Event: ev})
			}
			return nil
		}),
		bus.SubscribeFunc(events.PriceAlertRaised, func(_ context.Context, e events.Event) error {
			if ev, ok := e.(events.PriceAlertEvent); ok {
				b.program.Send(PriceAlertMsg{Event: ev})
			}
			return nil
		}),
	)

	return b
}

// Close stops forwarding.
func (b *Bridge) Close() {
	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.subs = nil
}
