package eventpubsub

const (
	TradeUpdateEvent       = "TradeUpdateEvent"
	AccountUpdateEvent     = "AccountUpdateEvent"
	OrderStatusChangeEvent = "OrderStatusChangeEvent"
	StreamErrorEvent       = "StreamErrorEvent"
)
