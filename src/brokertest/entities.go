package brokertest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Server-side entities. These marshal to the exact wire shapes the real
// broker emits: timestamps as RFC3339 strings, monetary values as quoted
// decimal strings, null for unset optionals.

type brokerOrder struct {
	ID             uuid.UUID        `json:"id"`
	ClientOrderID  string           `json:"client_order_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at"`
	SubmittedAt    *time.Time       `json:"submitted_at"`
	FilledAt       *time.Time       `json:"filled_at"`
	ExpiredAt      *time.Time       `json:"expired_at"`
	CanceledAt     *time.Time       `json:"canceled_at"`
	AssetID        uuid.UUID        `json:"asset_id"`
	Symbol         string           `json:"symbol"`
	AssetClass     string           `json:"asset_class"`
	Qty            decimal.Decimal  `json:"qty"`
	FilledQty      decimal.Decimal  `json:"filled_qty"`
	Type           string           `json:"type"`
	Side           string           `json:"side"`
	TimeInForce    string           `json:"time_in_force"`
	LimitPrice     *decimal.Decimal `json:"limit_price"`
	StopPrice      *decimal.Decimal `json:"stop_price"`
	FilledAvgPrice *decimal.Decimal `json:"filled_avg_price"`
	Status         string           `json:"status"`
	ExtendedHours  bool             `json:"extended_hours"`
}

func (o *brokerOrder) isTerminal() bool {
	switch o.Status {
	case "filled", "canceled", "expired", "rejected":
		return true
	}

	return false
}

type brokerAccount struct {
	ID                   uuid.UUID       `json:"id"`
	AccountNumber        string          `json:"account_number"`
	Status               string          `json:"status"`
	Currency             string          `json:"currency"`
	BuyingPower          decimal.Decimal `json:"buying_power"`
	Cash                 decimal.Decimal `json:"cash"`
	CashWithdrawable     decimal.Decimal `json:"cash_withdrawable"`
	PortfolioValue       decimal.Decimal `json:"portfolio_value"`
	Equity               decimal.Decimal `json:"equity"`
	LastEquity           decimal.Decimal `json:"last_equity"`
	Multiplier           decimal.Decimal `json:"multiplier"`
	DaytradeCount        int             `json:"daytrade_count"`
	PatternDayTrader     bool            `json:"pattern_day_trader"`
	ShortingEnabled      bool            `json:"shorting_enabled"`
	TradingBlocked       bool            `json:"trading_blocked"`
	TransfersBlocked     bool            `json:"transfers_blocked"`
	AccountBlocked       bool            `json:"account_blocked"`
	TradeSuspendedByUser bool            `json:"trade_suspended_by_user"`
	CreatedAt            time.Time       `json:"created_at"`
}

// AccountSnapshot is the payload of one account_updates frame. Tests build
// these directly to push account events through the stream.
type AccountSnapshot struct {
	ID               uuid.UUID       `json:"id"`
	CreatedAt        *time.Time      `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at"`
	DeletedAt        *time.Time      `json:"deleted_at"`
	Status           string          `json:"status"`
	Currency         string          `json:"currency"`
	Cash             decimal.Decimal `json:"cash"`
	CashWithdrawable decimal.Decimal `json:"cash_withdrawable"`
}

type tradeEvent struct {
	Event string       `json:"event"`
	Order *brokerOrder `json:"order"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type createOrderPayload struct {
	Symbol        string           `json:"symbol"`
	Qty           decimal.Decimal  `json:"qty"`
	Side          string           `json:"side"`
	Type          string           `json:"type"`
	TimeInForce   string           `json:"time_in_force"`
	LimitPrice    *decimal.Decimal `json:"limit_price"`
	StopPrice     *decimal.Decimal `json:"stop_price"`
	ClientOrderID string           `json:"client_order_id"`
	ExtendedHours bool             `json:"extended_hours"`
}

type listOrdersQuery struct {
	Status    string   `schema:"status"`
	Limit     int      `schema:"limit"`
	Direction string   `schema:"direction"`
	Nested    bool     `schema:"nested"`
	Symbols   []string `schema:"symbols"`
}
