package eventmodels

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the body of POST /v2/orders.
type CreateOrderRequest struct {
	Symbol        string           `json:"symbol"`
	Qty           decimal.Decimal  `json:"qty"`
	Side          OrderSide        `json:"side"`
	Type          OrderType        `json:"type"`
	TimeInForce   OrderTimeInForce `json:"time_in_force"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
	TrailPrice    *decimal.Decimal `json:"trail_price,omitempty"`
	TrailPercent  *decimal.Decimal `json:"trail_percent,omitempty"`
	ClientOrderID string           `json:"client_order_id,omitempty"`
	ExtendedHours bool             `json:"extended_hours,omitempty"`
}

func (r *CreateOrderRequest) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("CreateOrderRequest.Validate: symbol was not set")
	}

	if r.Qty.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("CreateOrderRequest.Validate: qty must be positive")
	}

	if r.Side != OrderSideBuy && r.Side != OrderSideSell {
		return fmt.Errorf("CreateOrderRequest.Validate: invalid side %q", r.Side)
	}

	switch r.Type {
	case OrderTypeLimit, OrderTypeStopLimit:
		if r.LimitPrice == nil {
			return fmt.Errorf("CreateOrderRequest.Validate: %s order requires a limit price", r.Type)
		}
	case OrderTypeMarket, OrderTypeStop, OrderTypeTrailingStop:
		// no limit price required
	default:
		return fmt.Errorf("CreateOrderRequest.Validate: invalid type %q", r.Type)
	}

	return nil
}
