package eventmodels

import (
	"time"

	"github.com/shopspring/decimal"
)

// BrokerAccount is the REST snapshot of the trading account returned by
// GET /v2/account. The push-stream counterpart is AccountUpdate, which
// carries a narrower field set.
type BrokerAccount struct {
	ID                   AccountID       `json:"id"`
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
