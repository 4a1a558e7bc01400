package eventconsumers

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/quantara/tradestream/src/eventmodels"
	pubsub "github.com/quantara/tradestream/src/eventpubsub"
)

// OrderTrackerClient keeps the latest snapshot of every order seen on the
// trade updates stream and publishes a status change event whenever a
// tracked order moves to a new status.
type OrderTrackerClient struct {
	wg     *sync.WaitGroup
	mu     sync.Mutex
	orders eventmodels.OrderDataStore
}

func (c *OrderTrackerClient) tradeUpdateHandler(update eventmodels.TradeUpdate) {
	log.Debugf("OrderTrackerClient.tradeUpdateHandler <- %v", update.Event)

	order := update.Order

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.orders[order.ID]; !ok {
		c.orders.Add(&order)
		return
	}

	for _, ev := range c.orders.Update(&order) {
		pubsub.Publish(pubsub.OrderStatusChangeEvent, ev)
	}
}

// Summary reports how many orders have been tracked and how many of them are
// still open.
func (c *OrderTrackerClient) Summary() (total int, open int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, order := range c.orders {
		if order.Status.IsOpen() {
			open += 1
		}
	}

	return len(c.orders), open
}

func (c *OrderTrackerClient) Start(ctx context.Context) {
	c.wg.Add(1)

	if err := pubsub.Subscribe(pubsub.TradeUpdateEvent, c.tradeUpdateHandler); err != nil {
		log.Errorf("OrderTrackerClient.Start: failed to subscribe to trade updates: %v", err)
	}

	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				log.Info("stopping OrderTrackerClient consumer")
				return
			}
		}
	}()
}

func NewOrderTrackerClient(wg *sync.WaitGroup) *OrderTrackerClient {
	return &OrderTrackerClient{
		wg:     wg,
		orders: eventmodels.NewOrderDataStore(),
	}
}
