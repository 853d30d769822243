package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBus_PublishSyncDelivers(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	var got atomic.Int32
	bus.SubscribeFunc(MetricsUpdated, func(ctx context.Context, e Event) error {
		got.Add(1)
		assert.Equal(t, MetricsUpdated, e.Type())
		return nil
	})

	ev := MetricsUpdatedEvent{BaseEvent: NewBaseEvent(MetricsUpdated), Pool: "test", Price: 0.001}
	require.NoError(t, bus.PublishSync(context.Background(), ev))
	assert.Equal(t, int32(1), got.Load())
}

func TestBus_AsyncDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	done := make(chan struct{})
	bus.SubscribeFunc(FundingAlertRaised, func(ctx context.Context, e Event) error {
		close(done)
		return nil
	})

	require.NoError(t, bus.Publish(FundingAlertEvent{BaseEvent: NewBaseEvent(FundingAlertRaised)}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
	require.NoError(t, bus.Shutdown(context.Background()))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	var got atomic.Int32
	sub := bus.SubscribeFunc(PriceAlertRaised, func(ctx context.Context, e Event) error {
		got.Add(1)
		return nil
	})
	sub.Unsubscribe()

	require.NoError(t, bus.PublishSync(context.Background(), PriceAlertEvent{BaseEvent: NewBaseEvent(PriceAlertRaised)}))
	assert.Equal(t, int32(0), got.Load())
}

func TestBus_PublishAfterShutdownFails(t *testing.T) {
	bus := NewBus(zap.NewNop(), 1)
	require.NoError(t, bus.Shutdown(context.Background()))

	err := bus.Publish(MetricsUpdatedEvent{BaseEvent: NewBaseEvent(MetricsUpdated)})
	assert.Error(t, err)
}
