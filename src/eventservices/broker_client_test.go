package eventservices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantara/tradestream/src/brokertest"
	"github.com/quantara/tradestream/src/eventmodels"
	"github.com/quantara/tradestream/src/eventstream"
)

func limitOrderRequest(symbol string) eventmodels.CreateOrderRequest {
	limitPrice := decimal.RequireFromString("100.00")

	return eventmodels.CreateOrderRequest{
		Symbol:      symbol,
		Qty:         decimal.NewFromInt(1),
		Side:        eventmodels.OrderSideBuy,
		Type:        eventmodels.OrderTypeLimit,
		TimeInForce: eventmodels.OrderTimeInForceDay,
		LimitPrice:  &limitPrice,
	}
}

func Test_BrokerClient(t *testing.T) {
	broker := brokertest.NewBroker("key", "secret")
	defer broker.Close()

	client := NewBrokerClient(broker.ApiInfo())

	t.Run("get account", func(t *testing.T) {
		// act
		account, err := client.GetAccount(context.Background())

		// assert
		require.NoError(t, err)

		want := broker.Account()
		assert.Equal(t, want.ID, account.ID)
		assert.Equal(t, want.AccountNumber, account.AccountNumber)
		assert.Equal(t, want.Status, account.Status)
		assert.Equal(t, want.Currency, account.Currency)
		assert.True(t, account.Cash.Equal(want.Cash))
		assert.True(t, account.BuyingPower.Equal(want.BuyingPower))
		assert.True(t, account.Multiplier.Equal(want.Multiplier))
		assert.Equal(t, want.ShortingEnabled, account.ShortingEnabled)
	})

	t.Run("place and fetch an order", func(t *testing.T) {
		// act
		placed, err := client.PlaceOrder(context.Background(), limitOrderRequest("AAPL"))

		// assert
		require.NoError(t, err)
		assert.Equal(t, "AAPL", placed.Symbol)
		assert.Equal(t, eventmodels.OrderStatusNew, placed.Status)
		assert.Equal(t, eventmodels.OrderSideBuy, placed.Side)
		require.NotNil(t, placed.LimitPrice)
		assert.Equal(t, "100.00", placed.LimitPrice.StringFixed(2))

		fetched, err := client.GetOrder(context.Background(), placed.ID)
		require.NoError(t, err)
		assert.Equal(t, placed.ID, fetched.ID)
		assert.Equal(t, placed.AssetID, fetched.AssetID)
	})

	t.Run("invalid order is rejected before the wire", func(t *testing.T) {
		// arrange
		request := limitOrderRequest("AAPL")
		request.Qty = decimal.Zero

		// act
		_, err := client.PlaceOrder(context.Background(), request)

		// assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "qty must be positive")
	})

	t.Run("unknown order id yields an api error", func(t *testing.T) {
		// act
		_, err := client.GetOrder(context.Background(), eventmodels.OrderID{})

		// assert
		require.Error(t, err)

		var apiErr *eventmodels.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "not found")
	})

	t.Run("bad credentials yield an unauthorized api error", func(t *testing.T) {
		// arrange
		apiInfo := broker.ApiInfo()
		apiInfo.Secret = "wrong"
		unauthorized := NewBrokerClient(apiInfo)

		// act
		_, err := unauthorized.GetAccount(context.Background())

		// assert
		require.Error(t, err)

		var apiErr *eventmodels.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("list orders filters by status and symbol", func(t *testing.T) {
		// arrange
		placed, err := client.PlaceOrder(context.Background(), limitOrderRequest("MSFT"))
		require.NoError(t, err)

		require.NoError(t, client.CancelOrder(context.Background(), placed.ID))

		// act
		open, err := client.ListOrders(context.Background(), eventmodels.ListOrdersRequest{
			Status:  eventmodels.OrderListStatusOpen,
			Symbols: []string{"MSFT"},
		})
		require.NoError(t, err)

		closed, err := client.ListOrders(context.Background(), eventmodels.ListOrdersRequest{
			Status:  eventmodels.OrderListStatusClosed,
			Symbols: []string{"MSFT"},
		})
		require.NoError(t, err)

		// assert
		assert.Empty(t, open)
		require.Len(t, closed, 1)
		assert.Equal(t, placed.ID, closed[0].ID)
		assert.Equal(t, eventmodels.OrderStatusCanceled, closed[0].Status)
	})
}

func Test_TradeLifecycleOverStream(t *testing.T) {
	// arrange
	broker := brokertest.NewBroker("key", "secret")
	defer broker.Close()

	client := NewBrokerClient(broker.ApiInfo())

	conn, err := eventstream.Connect(context.Background(), broker.ApiInfo())
	require.NoError(t, err)
	defer conn.Close()

	sub, err := eventstream.SubscribeTradeUpdates(context.Background(), conn)
	require.NoError(t, err)

	// act: submit, then cancel so the order is guaranteed to emit events
	placed, err := client.PlaceOrder(context.Background(), limitOrderRequest("AAPL"))
	require.NoError(t, err)

	require.NoError(t, client.CancelOrder(context.Background(), placed.ID))

	// assert
	newEvent := receiveTradeUpdate(t, sub)
	require.Equal(t, eventmodels.TradeStatusNew, newEvent.Event)
	assert.Equal(t, placed.ID, newEvent.Order.ID)
	assert.Equal(t, placed.AssetID, newEvent.Order.AssetID)
	assert.Equal(t, placed.Symbol, newEvent.Order.Symbol)
	assert.Equal(t, placed.AssetClass, newEvent.Order.AssetClass)
	assert.Equal(t, placed.Type, newEvent.Order.Type)
	assert.Equal(t, placed.Side, newEvent.Order.Side)
	assert.Equal(t, placed.TimeInForce, newEvent.Order.TimeInForce)

	canceledEvent := receiveTradeUpdate(t, sub)
	require.Equal(t, eventmodels.TradeStatusCanceled, canceledEvent.Event)
	assert.Equal(t, placed.ID, canceledEvent.Order.ID)
	assert.True(t, canceledEvent.Event.IsTerminal())
	require.NotNil(t, canceledEvent.Order.CanceledAt)
}

func Test_PartialFillsOverStream(t *testing.T) {
	// arrange
	broker := brokertest.NewBroker("key", "secret")
	defer broker.Close()

	client := NewBrokerClient(broker.ApiInfo())

	conn, err := eventstream.Connect(context.Background(), broker.ApiInfo())
	require.NoError(t, err)
	defer conn.Close()

	sub, err := eventstream.SubscribeTradeUpdates(context.Background(), conn)
	require.NoError(t, err)

	request := limitOrderRequest("AAPL")
	request.Qty = decimal.NewFromInt(10)

	placed, err := client.PlaceOrder(context.Background(), request)
	require.NoError(t, err)

	newEvent := receiveTradeUpdate(t, sub)
	require.Equal(t, eventmodels.TradeStatusNew, newEvent.Event)
	assert.True(t, newEvent.Order.RemainingQty().Equal(decimal.NewFromInt(10)))

	// act: two tranches complete the order
	require.NoError(t, broker.FillOrder(placed.ID, decimal.NewFromInt(4), decimal.RequireFromString("99.00")))
	require.NoError(t, broker.FillOrder(placed.ID, decimal.NewFromInt(6), decimal.RequireFromString("100.00")))

	// assert
	partial := receiveTradeUpdate(t, sub)
	require.Equal(t, eventmodels.TradeStatusPartialFill, partial.Event)
	assert.Equal(t, eventmodels.OrderStatusPartiallyFilled, partial.Order.Status)
	assert.False(t, partial.Event.IsTerminal())
	assert.True(t, partial.Order.RemainingQty().Equal(decimal.NewFromInt(6)))
	require.NotNil(t, partial.Order.FilledAvgPrice)
	assert.Equal(t, "99.00", partial.Order.FilledAvgPrice.StringFixed(2))

	filled := receiveTradeUpdate(t, sub)
	require.Equal(t, eventmodels.TradeStatusFill, filled.Event)
	assert.True(t, filled.Event.IsTerminal())
	assert.True(t, filled.Order.RemainingQty().IsZero())
	require.NotNil(t, filled.Order.FilledAt)
	require.NotNil(t, filled.Order.FilledAvgPrice)
	assert.Equal(t, "99.60", filled.Order.FilledAvgPrice.StringFixed(2))

	// a terminal order takes no further fills
	err = broker.FillOrder(placed.ID, decimal.NewFromInt(1), decimal.RequireFromString("100.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already terminal")
}

func receiveTradeUpdate(t *testing.T, sub *eventstream.Subscription[eventmodels.TradeUpdate]) eventmodels.TradeUpdate {
	t.Helper()

	select {
	case result, ok := <-sub.Events():
		require.True(t, ok, "stream channel closed unexpectedly")
		require.NoError(t, result.Err)
		return result.Event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a trade update")
		return eventmodels.TradeUpdate{}
	}
}
