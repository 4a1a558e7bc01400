package eventmodels

// OrderStatus is the order state as reported by the broker's REST endpoints.
// Unlike TradeStatus this set is open: the broker introduces REST statuses
// without notice, and decoding keeps the raw value for any status not listed
// here.
type OrderStatus string

const (
	OrderStatusNew                OrderStatus = "new"
	OrderStatusReplaced           OrderStatus = "replaced"
	OrderStatusPartiallyFilled    OrderStatus = "partially_filled"
	OrderStatusFilled             OrderStatus = "filled"
	OrderStatusDoneForDay         OrderStatus = "done_for_day"
	OrderStatusCanceled           OrderStatus = "canceled"
	OrderStatusExpired            OrderStatus = "expired"
	OrderStatusAccepted           OrderStatus = "accepted"
	OrderStatusPendingNew         OrderStatus = "pending_new"
	OrderStatusAcceptedForBidding OrderStatus = "accepted_for_bidding"
	OrderStatusPendingCancel      OrderStatus = "pending_cancel"
	OrderStatusPendingReplace     OrderStatus = "pending_replace"
	OrderStatusStopped            OrderStatus = "stopped"
	OrderStatusRejected           OrderStatus = "rejected"
	OrderStatusSuspended          OrderStatus = "suspended"
	OrderStatusCalculated         OrderStatus = "calculated"
	OrderStatusHeld               OrderStatus = "held"
)

func (status OrderStatus) IsOpen() bool {
	return status == OrderStatusNew || status == OrderStatusAccepted || status == OrderStatusPendingNew || status == OrderStatusPartiallyFilled
}

func (status OrderStatus) IsTerminal() bool {
	return status == OrderStatusFilled || status == OrderStatusCanceled || status == OrderStatusExpired || status == OrderStatusRejected
}
