package eventmodels

import "time"

// TradeUpdateCsvDTO is the flattened row shape used when recording trade
// updates to disk.
type TradeUpdateCsvDTO struct {
	Event          string `csv:"event"`
	OrderID        string `csv:"order_id"`
	Symbol         string `csv:"symbol"`
	Side           string `csv:"side"`
	Type           string `csv:"type"`
	Qty            string `csv:"qty"`
	FilledQty      string `csv:"filled_qty"`
	FilledAvgPrice string `csv:"filled_avg_price"`
	Status         string `csv:"status"`
	UpdatedAt      string `csv:"updated_at"`
}

func NewTradeUpdateCsvDTO(update TradeUpdate) *TradeUpdateCsvDTO {
	row := &TradeUpdateCsvDTO{
		Event:     string(update.Event),
		OrderID:   update.Order.ID.String(),
		Symbol:    update.Order.Symbol,
		Side:      string(update.Order.Side),
		Type:      string(update.Order.Type),
		Qty:       update.Order.Qty.String(),
		FilledQty: update.Order.FilledQty.String(),
		Status:    string(update.Order.Status),
	}

	if update.Order.FilledAvgPrice != nil {
		row.FilledAvgPrice = update.Order.FilledAvgPrice.String()
	}

	if update.Order.UpdatedAt != nil {
		row.UpdatedAt = update.Order.UpdatedAt.Format(time.RFC3339)
	}

	return row
}
