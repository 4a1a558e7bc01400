package eventstream

import (
	"context"

	"github.com/quantara/tradestream/src/eventmodels"
)

// Subscribe opens a typed subscription on conn for the stream named by the
// tag type S. The tag is never instantiated by callers; it exists to carry
// the pairing of stream id and event type. Type inference cannot recover E
// from S alone, so call sites must instantiate both parameters. Most call
// sites use the concrete helpers below.
func Subscribe[S eventmodels.EventStream[E], E any](ctx context.Context, conn *StreamConn) (*Subscription[E], error) {
	var tag S

	sub, err := conn.subscribe(ctx, tag.StreamType())
	if err != nil {
		return nil, err
	}

	return newSubscription(conn, sub, tag.DecodeEvent), nil
}

// SubscribeAccountUpdates subscribes to account snapshots.
func SubscribeAccountUpdates(ctx context.Context, conn *StreamConn) (*Subscription[eventmodels.AccountUpdate], error) {
	return Subscribe[eventmodels.AccountUpdates, eventmodels.AccountUpdate](ctx, conn)
}

// SubscribeTradeUpdates subscribes to order lifecycle notifications.
func SubscribeTradeUpdates(ctx context.Context, conn *StreamConn) (*Subscription[eventmodels.TradeUpdate], error) {
	return Subscribe[eventmodels.TradeUpdates, eventmodels.TradeUpdate](ctx, conn)
}
