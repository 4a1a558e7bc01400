package eventmodels

// TradeUpdate is pushed on the trade_updates stream whenever one of the
// account's orders changes state.
//
// Once Event reports a terminal status (see TradeStatus.IsTerminal) the
// broker emits no further updates for that order.
type TradeUpdate struct {
	Event TradeStatus
	Order Order
}
