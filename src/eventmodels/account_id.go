package eventmodels

import "github.com/google/uuid"

type AccountID uuid.UUID

func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AccountID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}

	*id = AccountID(parsed)
	return nil
}

func ParseAccountID(value string) (AccountID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return AccountID{}, err
	}

	return AccountID(id), nil
}
