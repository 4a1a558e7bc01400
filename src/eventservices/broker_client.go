package eventservices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quantara/tradestream/src/eventmodels"
)

const (
	headerKeyID     = "BROKER-API-KEY-ID"
	headerSecretKey = "BROKER-API-SECRET-KEY"
)

// BrokerClient talks to the broker's v2 REST API. It is safe for concurrent
// use; all methods honor their context for cancellation.
type BrokerClient struct {
	apiInfo *eventmodels.ApiInfo
	client  *http.Client
	encoder *schema.Encoder
}

func NewBrokerClient(apiInfo *eventmodels.ApiInfo) *BrokerClient {
	encoder := schema.NewEncoder()
	encoder.RegisterEncoder(time.Time{}, func(v reflect.Value) string {
		return v.Interface().(time.Time).Format(time.RFC3339)
	})

	return &BrokerClient{
		apiInfo: apiInfo,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		encoder: encoder,
	}
}

// GetAccount fetches the current account snapshot.
func (c *BrokerClient) GetAccount(ctx context.Context) (*eventmodels.BrokerAccount, error) {
	var account eventmodels.BrokerAccount
	if err := c.get(ctx, "/v2/account", nil, &account); err != nil {
		return nil, fmt.Errorf("BrokerClient:GetAccount(): %w", err)
	}

	return &account, nil
}

// PlaceOrder submits a new order and returns the broker's snapshot of it.
func (c *BrokerClient) PlaceOrder(ctx context.Context, request eventmodels.CreateOrderRequest) (*eventmodels.Order, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("BrokerClient:PlaceOrder(): %w", err)
	}

	var dto eventmodels.OrderDTO
	if err := c.post(ctx, "/v2/orders", request, &dto); err != nil {
		return nil, fmt.Errorf("BrokerClient:PlaceOrder(): %w", err)
	}

	order, err := dto.ToOrder(eventmodels.StreamTypeTradeUpdates)
	if err != nil {
		return nil, fmt.Errorf("BrokerClient:PlaceOrder(): failed to convert order: %w", err)
	}

	return order, nil
}

// GetOrder fetches one order by id.
func (c *BrokerClient) GetOrder(ctx context.Context, id eventmodels.OrderID) (*eventmodels.Order, error) {
	var dto eventmodels.OrderDTO
	if err := c.get(ctx, fmt.Sprintf("/v2/orders/%s", id), nil, &dto); err != nil {
		return nil, fmt.Errorf("BrokerClient:GetOrder(): %w", err)
	}

	order, err := dto.ToOrder(eventmodels.StreamTypeTradeUpdates)
	if err != nil {
		return nil, fmt.Errorf("BrokerClient:GetOrder(): failed to convert order: %w", err)
	}

	return order, nil
}

// ListOrders fetches orders matching the request filters.
func (c *BrokerClient) ListOrders(ctx context.Context, request eventmodels.ListOrdersRequest) ([]*eventmodels.Order, error) {
	query := url.Values{}
	if err := c.encoder.Encode(&request, query); err != nil {
		return nil, fmt.Errorf("BrokerClient:ListOrders(): failed to encode query: %w", err)
	}

	var dtos []eventmodels.OrderDTO
	if err := c.get(ctx, "/v2/orders", query, &dtos); err != nil {
		return nil, fmt.Errorf("BrokerClient:ListOrders(): %w", err)
	}

	orders := make([]*eventmodels.Order, 0, len(dtos))
	for _, dto := range dtos {
		order, err := dto.ToOrder(eventmodels.StreamTypeTradeUpdates)
		if err != nil {
			return nil, fmt.Errorf("BrokerClient:ListOrders(): failed to convert order: %w", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

// CancelOrder requests cancellation of one order. The broker acknowledges
// with no body; the resulting trade event arrives on the stream.
func (c *BrokerClient) CancelOrder(ctx context.Context, id eventmodels.OrderID) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/v2/orders/%s", id), nil, nil, nil); err != nil {
		return fmt.Errorf("BrokerClient:CancelOrder(): %w", err)
	}

	return nil
}

func (c *BrokerClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *BrokerClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *BrokerClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint, err := url.Parse(c.apiInfo.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}

	endpoint.Path, err = url.JoinPath(endpoint.Path, path)
	if err != nil {
		return fmt.Errorf("failed to join path: %w", err)
	}

	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerKeyID, c.apiInfo.KeyID)
	req.Header.Set(headerSecretKey, c.apiInfo.Secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Tracef("%s %s", method, req.URL.String())

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// decodeAPIError turns a non-2xx response into an APIError, keeping the raw
// body as the message when it is not the broker's error shape.
func decodeAPIError(res *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil {
		return eventmodels.NewAPIError(res.StatusCode, res.Status)
	}

	apiErr := eventmodels.APIError{StatusCode: res.StatusCode}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return eventmodels.NewAPIError(res.StatusCode, string(body))
	}

	return &apiErr
}
