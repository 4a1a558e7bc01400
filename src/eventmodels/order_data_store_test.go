package eventmodels

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_OrderDataStore(t *testing.T) {
	orderID := OrderID(uuid.MustParse("61e69015-8549-4bfd-b9c3-01e75843f47d"))

	t.Run("add an order", func(t *testing.T) {
		// arrange
		orders := NewOrderDataStore()
		order := &Order{
			ID:     orderID,
			Status: OrderStatusNew,
		}

		// act
		orders.Add(order)

		// assert
		assert.Equal(t, 1, len(orders))
		assert.Equal(t, order, orders[order.ID])
	})

	t.Run("delete an order", func(t *testing.T) {
		// arrange
		orders := NewOrderDataStore()
		order := &Order{
			ID:     orderID,
			Status: OrderStatusNew,
		}
		orders.Add(order)

		// act
		orders.Delete(order.ID)

		// assert
		assert.Equal(t, 0, len(orders))
	})

	t.Run("update an order", func(t *testing.T) {
		// arrange
		orders := NewOrderDataStore()
		order := &Order{
			ID:     orderID,
			Status: OrderStatusNew,
		}
		orders.Add(order)

		// act
		update := &Order{
			ID:     orderID,
			Status: OrderStatusFilled,
		}

		updates := orders.Update(update)

		// assert
		assert.Equal(t, 1, len(updates))
		assert.Equal(t, "status", updates[0].Field)
		assert.Equal(t, OrderStatusNew, updates[0].Old)
		assert.Equal(t, OrderStatusFilled, updates[0].New)
		assert.Equal(t, OrderStatusFilled, orders[order.ID].Status)
	})

	t.Run("update refreshes the stored snapshot", func(t *testing.T) {
		// arrange
		orders := NewOrderDataStore()
		order := &Order{
			ID:        orderID,
			Status:    OrderStatusPartiallyFilled,
			FilledQty: requireDecimalFromString(t, "2"),
		}
		orders.Add(order)

		// act
		update := &Order{
			ID:        orderID,
			Status:    OrderStatusPartiallyFilled,
			FilledQty: requireDecimalFromString(t, "5"),
		}

		updates := orders.Update(update)

		// assert
		assert.Equal(t, 0, len(updates))
		assert.True(t, orders[order.ID].FilledQty.Equal(requireDecimalFromString(t, "5")))
	})

	t.Run("update an order that does not exist", func(t *testing.T) {
		// arrange
		orders := NewOrderDataStore()

		// act
		update := &Order{
			ID:     orderID,
			Status: OrderStatusFilled,
		}

		updates := orders.Update(update)

		// assert
		assert.Equal(t, 0, len(updates))
		assert.Equal(t, 0, len(orders))
	})
}
