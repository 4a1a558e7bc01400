package eventmodels

// OrderStatusChangeEvent is published when a tracked order transitions to a
// new status.
type OrderStatusChangeEvent struct {
	OrderID OrderID
	Field   string
	Old     OrderStatus
	New     OrderStatus
}
