package eventmodels

import "time"

type OrderListStatus string

const (
	OrderListStatusOpen   OrderListStatus = "open"
	OrderListStatusClosed OrderListStatus = "closed"
	OrderListStatusAll    OrderListStatus = "all"
)

// ListOrdersRequest holds the query parameters of GET /v2/orders. The zero
// value lists open orders with the broker's default page size.
type ListOrdersRequest struct {
	Status    OrderListStatus `schema:"status,omitempty"`
	Limit     int             `schema:"limit,omitempty"`
	After     *time.Time      `schema:"after,omitempty"`
	Until     *time.Time      `schema:"until,omitempty"`
	Direction string          `schema:"direction,omitempty"`
	Nested    bool            `schema:"nested,omitempty"`
	Symbols   []string        `schema:"symbols,omitempty"`
}
