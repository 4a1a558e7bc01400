package eventmodels

import (
	"github.com/shopspring/decimal"
)

// AccountUpdateDTO mirrors the account_updates wire payload. Pointer fields
// distinguish absent and null values from present ones so that conversion can
// report exactly which required field a bad payload is missing. Fields the
// broker sends beyond these are ignored.
type AccountUpdateDTO struct {
	ID               *string          `json:"id"`
	CreatedAt        *string          `json:"created_at"`
	UpdatedAt        *string          `json:"updated_at"`
	DeletedAt        *string          `json:"deleted_at"`
	Status           *string          `json:"status"`
	Currency         *string          `json:"currency"`
	Cash             *decimal.Decimal `json:"cash"`
	WithdrawableCash *decimal.Decimal `json:"cash_withdrawable"`
}

func (dto *AccountUpdateDTO) ToAccountUpdate() (*AccountUpdate, error) {
	const stream = StreamTypeAccountUpdates

	id, err := requireUUID(stream, "id", dto.ID)
	if err != nil {
		return nil, err
	}

	createdAt, err := parseOptionalTimestamp(stream, "created_at", dto.CreatedAt)
	if err != nil {
		return nil, err
	}

	updatedAt, err := parseOptionalTimestamp(stream, "updated_at", dto.UpdatedAt)
	if err != nil {
		return nil, err
	}

	deletedAt, err := parseOptionalTimestamp(stream, "deleted_at", dto.DeletedAt)
	if err != nil {
		return nil, err
	}

	status, err := requireString(stream, "status", dto.Status)
	if err != nil {
		return nil, err
	}

	currency, err := requireString(stream, "currency", dto.Currency)
	if err != nil {
		return nil, err
	}

	cash, err := requireDecimal(stream, "cash", dto.Cash)
	if err != nil {
		return nil, err
	}

	withdrawableCash, err := requireDecimal(stream, "cash_withdrawable", dto.WithdrawableCash)
	if err != nil {
		return nil, err
	}

	return &AccountUpdate{
		ID:               AccountID(id),
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		Status:           status,
		Currency:         currency,
		Cash:             cash,
		WithdrawableCash: withdrawableCash,
	}, nil
}
