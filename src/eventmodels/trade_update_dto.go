package eventmodels

// TradeUpdateDTO mirrors the trade_updates wire payload.
type TradeUpdateDTO struct {
	Event *string   `json:"event"`
	Order *OrderDTO `json:"order"`
}

func (dto *TradeUpdateDTO) ToTradeUpdate() (*TradeUpdate, error) {
	const stream = StreamTypeTradeUpdates

	event, err := requireString(stream, "event", dto.Event)
	if err != nil {
		return nil, err
	}

	status, err := ParseTradeStatus(event)
	if err != nil {
		return nil, err
	}

	if dto.Order == nil {
		return nil, NewMissingFieldError(stream, "order")
	}

	order, err := dto.Order.ToOrder(stream)
	if err != nil {
		return nil, err
	}

	return &TradeUpdate{
		Event: status,
		Order: *order,
	}, nil
}
