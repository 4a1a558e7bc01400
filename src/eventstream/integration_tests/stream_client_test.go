package integrationtests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantara/tradestream/src/eventmodels"
	"github.com/quantara/tradestream/src/eventservices"
	"github.com/quantara/tradestream/src/eventstream"
	"github.com/quantara/tradestream/src/utils"
)

// These tests run against a real paper-trading account and are skipped unless
// broker credentials are present in the environment.

func requireApiInfo(t *testing.T) *eventmodels.ApiInfo {
	t.Helper()

	err := utils.InitEnvironmentVariables()
	require.NoError(t, err)

	if os.Getenv("BROKER_API_KEY_ID") == "" || os.Getenv("BROKER_API_SECRET_KEY") == "" {
		t.Skip("BROKER_API_KEY_ID and BROKER_API_SECRET_KEY must be set")
	}

	apiInfo, err := eventmodels.NewApiInfoFromEnv()
	require.NoError(t, err)

	return apiInfo
}

func awaitTradeUpdate(t *testing.T, sub *eventstream.Subscription[eventmodels.TradeUpdate], orderID eventmodels.OrderID, timeout time.Duration) eventmodels.TradeUpdate {
	t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case result, ok := <-sub.Events():
			require.True(t, ok, "subscription closed while waiting for trade update: %v", sub.Err())
			require.NoError(t, result.Err)

			// Other activity on the account can interleave with the order
			// under test.
			if result.Event.Order.ID != orderID {
				continue
			}

			return result.Event
		case <-deadline:
			t.Fatalf("timed out waiting for trade update on order %s", orderID)
		}
	}
}

func TestStreamAuthentication(t *testing.T) {
	apiInfo := requireApiInfo(t)

	t.Run("rejects invalid credentials", func(t *testing.T) {
		badInfo := *apiInfo
		badInfo.Secret = "invalid-secret"

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := eventstream.Connect(ctx, &badInfo)
		require.Error(t, err)
		assert.EqualError(t, err, "authentication not successful")
	})

	t.Run("accepts valid credentials", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		conn, err := eventstream.Connect(ctx, apiInfo)
		require.NoError(t, err)

		require.NoError(t, conn.Close())
	})
}

func TestTradeUpdatesLive(t *testing.T) {
	apiInfo := requireApiInfo(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := eventstream.Connect(ctx, apiInfo)
	require.NoError(t, err)
	defer conn.Close()

	sub, err := eventstream.SubscribeTradeUpdates(ctx, conn)
	require.NoError(t, err)

	client := eventservices.NewBrokerClient(apiInfo)

	// A limit far below market rests on the book instead of filling, so the
	// cancel below is deterministic.
	limitPrice := decimal.NewFromInt(1)
	order, err := client.PlaceOrder(ctx, eventmodels.CreateOrderRequest{
		Symbol:      "AAPL",
		Qty:         decimal.NewFromInt(1),
		Side:        eventmodels.OrderSideBuy,
		Type:        eventmodels.OrderTypeLimit,
		TimeInForce: eventmodels.OrderTimeInForceDay,
		LimitPrice:  &limitPrice,
	})
	require.NoError(t, err)

	require.NoError(t, client.CancelOrder(ctx, order.ID))

	// With the cancel in flight the broker may report new first, or skip
	// straight to pending_cancel or canceled; whichever update arrives first
	// must carry the order as placed.
	update := awaitTradeUpdate(t, sub, order.ID, time.Minute)
	assert.Equal(t, order.ID, update.Order.ID)
	assert.Equal(t, order.AssetID, update.Order.AssetID)
	assert.Equal(t, order.Symbol, update.Order.Symbol)
	assert.Equal(t, order.AssetClass, update.Order.AssetClass)
	assert.Equal(t, order.Type, update.Order.Type)
	assert.Equal(t, order.Side, update.Order.Side)
	assert.Equal(t, order.TimeInForce, update.Order.TimeInForce)
}
