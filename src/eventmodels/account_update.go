package eventmodels

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountUpdate is a snapshot of a trading account pushed on the
// account_updates stream whenever the account changes.
//
// WithdrawableCash is expected to stay at or below Cash, but nothing on the
// decode path enforces that.
type AccountUpdate struct {
	ID        AccountID
	CreatedAt *time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	// Status is the broker's account state, e.g. "ACTIVE". The broker adds
	// states without notice, so the value stays an open string.
	Status   string
	Currency string
	// Cash is the settled cash balance denominated in Currency.
	Cash decimal.Decimal
	// WithdrawableCash is the portion of Cash available for withdrawal.
	WithdrawableCash decimal.Decimal
}
