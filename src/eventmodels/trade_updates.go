package eventmodels

import "encoding/json"

// TradeUpdates tags the trade_updates stream. It carries no data; its only
// job is to select the stream and its TradeUpdate event type.
type TradeUpdates struct{}

func (TradeUpdates) StreamType() StreamType {
	return StreamTypeTradeUpdates
}

func (TradeUpdates) DecodeEvent(data []byte) (TradeUpdate, error) {
	var dto TradeUpdateDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return TradeUpdate{}, &DecodeError{Stream: StreamTypeTradeUpdates, Err: err}
	}

	update, err := dto.ToTradeUpdate()
	if err != nil {
		return TradeUpdate{}, err
	}

	return *update, nil
}
