package eventconsumers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantara/tradestream/src/eventmodels"
	pubsub "github.com/quantara/tradestream/src/eventpubsub"
)

func newTradeUpdate(id eventmodels.OrderID, event eventmodels.TradeStatus, status eventmodels.OrderStatus) eventmodels.TradeUpdate {
	return eventmodels.TradeUpdate{
		Event: event,
		Order: eventmodels.Order{
			ID:     id,
			Symbol: "AAPL",
			Status: status,
		},
	}
}

func Test_OrderTrackerClient(t *testing.T) {
	orderID := eventmodels.OrderID(uuid.MustParse("61e69015-8549-4bfd-b9c3-01e75843f47d"))

	t.Run("tracks new orders", func(t *testing.T) {
		// arrange
		pubsub.Init()
		wg := sync.WaitGroup{}
		tracker := NewOrderTrackerClient(&wg)

		// act
		tracker.tradeUpdateHandler(newTradeUpdate(orderID, eventmodels.TradeStatusNew, eventmodels.OrderStatusNew))

		// assert
		total, open := tracker.Summary()
		assert.Equal(t, 1, total)
		assert.Equal(t, 1, open)
	})

	t.Run("publishes status changes", func(t *testing.T) {
		// arrange
		pubsub.Init()
		wg := sync.WaitGroup{}
		tracker := NewOrderTrackerClient(&wg)

		changes := make(chan *eventmodels.OrderStatusChangeEvent, 1)
		require.NoError(t, pubsub.Subscribe(pubsub.OrderStatusChangeEvent, func(ev *eventmodels.OrderStatusChangeEvent) {
			changes <- ev
		}))

		// act
		tracker.tradeUpdateHandler(newTradeUpdate(orderID, eventmodels.TradeStatusNew, eventmodels.OrderStatusNew))
		tracker.tradeUpdateHandler(newTradeUpdate(orderID, eventmodels.TradeStatusFill, eventmodels.OrderStatusFilled))

		// assert
		select {
		case ev := <-changes:
			assert.Equal(t, orderID, ev.OrderID)
			assert.Equal(t, "status", ev.Field)
			assert.Equal(t, eventmodels.OrderStatusNew, ev.Old)
			assert.Equal(t, eventmodels.OrderStatusFilled, ev.New)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for status change event")
		}

		total, open := tracker.Summary()
		assert.Equal(t, 1, total)
		assert.Equal(t, 0, open)
	})

	t.Run("same status publishes nothing", func(t *testing.T) {
		// arrange
		pubsub.Init()
		wg := sync.WaitGroup{}
		tracker := NewOrderTrackerClient(&wg)

		changes := make(chan *eventmodels.OrderStatusChangeEvent, 1)
		require.NoError(t, pubsub.Subscribe(pubsub.OrderStatusChangeEvent, func(ev *eventmodels.OrderStatusChangeEvent) {
			changes <- ev
		}))

		// act
		tracker.tradeUpdateHandler(newTradeUpdate(orderID, eventmodels.TradeStatusNew, eventmodels.OrderStatusNew))
		tracker.tradeUpdateHandler(newTradeUpdate(orderID, eventmodels.TradeStatusPartialFill, eventmodels.OrderStatusNew))
		pubsub.WaitAsync()

		// assert
		assert.Empty(t, changes)
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		// arrange
		pubsub.Init()
		wg := sync.WaitGroup{}
		tracker := NewOrderTrackerClient(&wg)

		ctx, cancel := context.WithCancel(context.Background())

		// act
		tracker.Start(ctx)
		cancel()

		// assert
		wg.Wait()
	})
}
