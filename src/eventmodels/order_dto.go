package eventmodels

import (
	"github.com/shopspring/decimal"
)

// OrderDTO mirrors the broker's order payload. The same shape arrives from
// the REST order endpoints and inside trade_updates frames.
type OrderDTO struct {
	ID             *string          `json:"id"`
	ClientOrderID  *string          `json:"client_order_id"`
	CreatedAt      *string          `json:"created_at"`
	UpdatedAt      *string          `json:"updated_at"`
	SubmittedAt    *string          `json:"submitted_at"`
	FilledAt       *string          `json:"filled_at"`
	ExpiredAt      *string          `json:"expired_at"`
	CanceledAt     *string          `json:"canceled_at"`
	AssetID        *string          `json:"asset_id"`
	Symbol         *string          `json:"symbol"`
	AssetClass     *string          `json:"asset_class"`
	Qty            *decimal.Decimal `json:"qty"`
	FilledQty      *decimal.Decimal `json:"filled_qty"`
	Type           *string          `json:"type"`
	Side           *string          `json:"side"`
	TimeInForce    *string          `json:"time_in_force"`
	LimitPrice     *decimal.Decimal `json:"limit_price"`
	StopPrice      *decimal.Decimal `json:"stop_price"`
	TrailPrice     *decimal.Decimal `json:"trail_price"`
	TrailPercent   *decimal.Decimal `json:"trail_percent"`
	FilledAvgPrice *decimal.Decimal `json:"filled_avg_price"`
	Status         *string          `json:"status"`
	ExtendedHours  bool             `json:"extended_hours"`
}

func (dto *OrderDTO) ToOrder(stream StreamType) (*Order, error) {
	id, err := requireUUID(stream, "id", dto.ID)
	if err != nil {
		return nil, err
	}

	clientOrderID, err := requireString(stream, "client_order_id", dto.ClientOrderID)
	if err != nil {
		return nil, err
	}

	createdAt, err := requireTimestamp(stream, "created_at", dto.CreatedAt)
	if err != nil {
		return nil, err
	}

	updatedAt, err := parseOptionalTimestamp(stream, "updated_at", dto.UpdatedAt)
	if err != nil {
		return nil, err
	}

	submittedAt, err := parseOptionalTimestamp(stream, "submitted_at", dto.SubmittedAt)
	if err != nil {
		return nil, err
	}

	filledAt, err := parseOptionalTimestamp(stream, "filled_at", dto.FilledAt)
	if err != nil {
		return nil, err
	}

	expiredAt, err := parseOptionalTimestamp(stream, "expired_at", dto.ExpiredAt)
	if err != nil {
		return nil, err
	}

	canceledAt, err := parseOptionalTimestamp(stream, "canceled_at", dto.CanceledAt)
	if err != nil {
		return nil, err
	}

	assetID, err := requireUUID(stream, "asset_id", dto.AssetID)
	if err != nil {
		return nil, err
	}

	symbol, err := requireString(stream, "symbol", dto.Symbol)
	if err != nil {
		return nil, err
	}

	assetClass, err := requireString(stream, "asset_class", dto.AssetClass)
	if err != nil {
		return nil, err
	}

	qty, err := requireDecimal(stream, "qty", dto.Qty)
	if err != nil {
		return nil, err
	}

	filledQty, err := requireDecimal(stream, "filled_qty", dto.FilledQty)
	if err != nil {
		return nil, err
	}

	orderType, err := requireString(stream, "type", dto.Type)
	if err != nil {
		return nil, err
	}

	side, err := requireString(stream, "side", dto.Side)
	if err != nil {
		return nil, err
	}

	timeInForce, err := requireString(stream, "time_in_force", dto.TimeInForce)
	if err != nil {
		return nil, err
	}

	status, err := requireString(stream, "status", dto.Status)
	if err != nil {
		return nil, err
	}

	return &Order{
		ID:             OrderID(id),
		ClientOrderID:  clientOrderID,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		SubmittedAt:    submittedAt,
		FilledAt:       filledAt,
		ExpiredAt:      expiredAt,
		CanceledAt:     canceledAt,
		AssetID:        assetID,
		Symbol:         symbol,
		AssetClass:     AssetClass(assetClass),
		Qty:            qty,
		FilledQty:      filledQty,
		Type:           OrderType(orderType),
		Side:           OrderSide(side),
		TimeInForce:    OrderTimeInForce(timeInForce),
		LimitPrice:     dto.LimitPrice,
		StopPrice:      dto.StopPrice,
		TrailPrice:     dto.TrailPrice,
		TrailPercent:   dto.TrailPercent,
		FilledAvgPrice: dto.FilledAvgPrice,
		Status:         OrderStatus(status),
		ExtendedHours:  dto.ExtendedHours,
	}, nil
}
