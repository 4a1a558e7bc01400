package eventmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a single order as the broker reports it, both from the REST order
// endpoints and embedded in trade_updates events.
type Order struct {
	ID             OrderID
	ClientOrderID  string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	SubmittedAt    *time.Time
	FilledAt       *time.Time
	ExpiredAt      *time.Time
	CanceledAt     *time.Time
	AssetID        uuid.UUID
	Symbol         string
	AssetClass     AssetClass
	Qty            decimal.Decimal
	FilledQty      decimal.Decimal
	Type           OrderType
	Side           OrderSide
	TimeInForce    OrderTimeInForce
	LimitPrice     *decimal.Decimal
	StopPrice      *decimal.Decimal
	TrailPrice     *decimal.Decimal
	TrailPercent   *decimal.Decimal
	FilledAvgPrice *decimal.Decimal
	Status         OrderStatus
	ExtendedHours  bool
}

// RemainingQty is the unfilled portion of the order quantity.
func (o *Order) RemainingQty() decimal.Decimal {
	return o.Qty.Sub(o.FilledQty)
}
