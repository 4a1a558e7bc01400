package eventmodels

import "github.com/google/uuid"

type OrderID uuid.UUID

func (id OrderID) String() string {
	return uuid.UUID(id).String()
}

func (id OrderID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *OrderID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}

	*id = OrderID(parsed)
	return nil
}

func ParseOrderID(value string) (OrderID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return OrderID{}, err
	}

	return OrderID(id), nil
}
