package eventmodels

import "encoding/json"

// AccountUpdates tags the account_updates stream. It carries no data; its
// only job is to select the stream and its AccountUpdate event type.
type AccountUpdates struct{}

func (AccountUpdates) StreamType() StreamType {
	return StreamTypeAccountUpdates
}

func (AccountUpdates) DecodeEvent(data []byte) (AccountUpdate, error) {
	var dto AccountUpdateDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return AccountUpdate{}, &DecodeError{Stream: StreamTypeAccountUpdates, Err: err}
	}

	update, err := dto.ToAccountUpdate()
	if err != nil {
		return AccountUpdate{}, err
	}

	return *update, nil
}
