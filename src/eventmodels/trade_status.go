package eventmodels

import "fmt"

// TradeStatus is the lifecycle state an order reached when the broker pushed
// a trade update. The set is closed: the broker documents exactly these wire
// names, and an unrecognized value fails the decode.
type TradeStatus string

const (
	// TradeStatusNew reports that an order has been routed to an exchange.
	TradeStatusNew TradeStatus = "new"
	// TradeStatusPartialFill reports that a part of the order quantity filled.
	TradeStatusPartialFill TradeStatus = "partial_fill"
	// TradeStatusFill reports that the order filled completely.
	TradeStatusFill TradeStatus = "fill"
	// TradeStatusDoneForDay reports that the order is done executing for the
	// day and will not receive further fills until the next trading day.
	TradeStatusDoneForDay TradeStatus = "done_for_day"
	// TradeStatusCanceled reports that the order was canceled and no further
	// fills will occur.
	TradeStatusCanceled TradeStatus = "canceled"
	// TradeStatusExpired reports that the order expired before filling.
	TradeStatusExpired TradeStatus = "expired"
	// TradeStatusPendingCancel reports that the order is awaiting
	// cancellation.
	TradeStatusPendingCancel TradeStatus = "pending_cancel"
	// TradeStatusStopped reports that the order was stopped: a guaranteed
	// trade occurred but it is not yet settled.
	TradeStatusStopped TradeStatus = "stopped"
	// TradeStatusRejected reports that the broker or exchange rejected the
	// order.
	TradeStatusRejected TradeStatus = "rejected"
	// TradeStatusSuspended reports that the order was suspended and is not
	// eligible for trading.
	TradeStatusSuspended TradeStatus = "suspended"
	// TradeStatusPendingNew reports that the order was received but is not
	// yet routed.
	TradeStatusPendingNew TradeStatus = "pending_new"
	// TradeStatusCalculated reports that the order is complete for the day
	// with fill information pending.
	TradeStatusCalculated TradeStatus = "calculated"
)

var tradeStatuses = map[TradeStatus]struct{}{
	TradeStatusNew:           {},
	TradeStatusPartialFill:   {},
	TradeStatusFill:          {},
	TradeStatusDoneForDay:    {},
	TradeStatusCanceled:      {},
	TradeStatusExpired:       {},
	TradeStatusPendingCancel: {},
	TradeStatusStopped:       {},
	TradeStatusRejected:      {},
	TradeStatusSuspended:     {},
	TradeStatusPendingNew:    {},
	TradeStatusCalculated:    {},
}

// ParseTradeStatus validates a wire value against the closed status set.
func ParseTradeStatus(value string) (TradeStatus, error) {
	status := TradeStatus(value)
	if _, found := tradeStatuses[status]; !found {
		return "", &DecodeError{
			Stream: StreamTypeTradeUpdates,
			Field:  "event",
			Value:  value,
			Err:    fmt.Errorf("unknown trade status"),
		}
	}

	return status, nil
}

// IsTerminal reports whether the order can no longer fill: it either filled
// completely or left the book for good.
func (status TradeStatus) IsTerminal() bool {
	return status == TradeStatusFill || status == TradeStatusCanceled || status == TradeStatusExpired || status == TradeStatusRejected
}
