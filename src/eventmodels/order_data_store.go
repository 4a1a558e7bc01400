package eventmodels

import log "github.com/sirupsen/logrus"

// OrderDataStore tracks the latest known snapshot of each order seen on the
// trade updates stream.
type OrderDataStore map[OrderID]*Order

// Update replaces the stored snapshot and reports any status transition.
// Orders that were never added are ignored.
func (o OrderDataStore) Update(order *Order) []*OrderStatusChangeEvent {
	var updates []*OrderStatusChangeEvent

	existing, ok := o[order.ID]
	if !ok {
		return updates
	}

	if existing.Status != order.Status {
		updates = append(updates, &OrderStatusChangeEvent{
			OrderID: order.ID,
			Field:   "status",
			Old:     existing.Status,
			New:     order.Status,
		})
	}

	o[order.ID] = order

	return updates
}

func (o OrderDataStore) Add(order *Order) {
	o[order.ID] = order
	log.Debugf("OrderDataStore.Add: added order with ID: %s", order.ID)
}

func (o OrderDataStore) Delete(orderID OrderID) {
	delete(o, orderID)
	log.Debugf("OrderDataStore.Delete: removed order with ID: %s", orderID)
}

func NewOrderDataStore() OrderDataStore {
	return make(map[OrderID]*Order)
}
