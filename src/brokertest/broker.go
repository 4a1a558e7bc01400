package brokertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/quantara/tradestream/src/eventmodels"
)

const (
	headerKeyID     = "BROKER-API-KEY-ID"
	headerSecretKey = "BROKER-API-SECRET-KEY"
)

// Broker is an in-process stand-in for the trading API: the REST order and
// account endpoints plus the multiplexed event stream, sharing one order
// store so that placing an order over REST emits the matching trade_updates
// frame. Tests run hermetically against it instead of a live account.
type Broker struct {
	server  *httptest.Server
	hub     *streamHub
	keyID   string
	secret  string
	decoder *schema.Decoder

	mu       sync.Mutex
	account  brokerAccount
	orders   map[uuid.UUID]*brokerOrder
	sequence []*brokerOrder
	assetIDs map[string]uuid.UUID
}

// NewBroker starts the fake on an ephemeral port with the given key pair.
func NewBroker(keyID, secret string) *Broker {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	b := &Broker{
		keyID:   keyID,
		secret:  secret,
		decoder: decoder,
		account: brokerAccount{
			ID:               uuid.New(),
			AccountNumber:    "PA0000001",
			Status:           "ACTIVE",
			Currency:         "USD",
			BuyingPower:      decimal.RequireFromString("400000"),
			Cash:             decimal.RequireFromString("100000"),
			CashWithdrawable: decimal.RequireFromString("100000"),
			PortfolioValue:   decimal.RequireFromString("100000"),
			Equity:           decimal.RequireFromString("100000"),
			LastEquity:       decimal.RequireFromString("100000"),
			Multiplier:       decimal.RequireFromString("4"),
			ShortingEnabled:  true,
			CreatedAt:        time.Now().UTC().Add(-24 * time.Hour),
		},
		orders:   make(map[uuid.UUID]*brokerOrder),
		assetIDs: make(map[string]uuid.UUID),
	}

	b.hub = newStreamHub(keyID, secret)

	router := mux.NewRouter()
	router.HandleFunc("/stream", b.hub.handleStream)

	api := router.PathPrefix("/v2").Subrouter()
	api.Use(b.requireAuth)
	api.HandleFunc("/account", b.handleGetAccount).Methods(http.MethodGet)
	api.HandleFunc("/orders", b.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", b.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", b.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", b.handleCancelOrder).Methods(http.MethodDelete)

	b.server = httptest.NewServer(router)

	return b
}

// Close shuts down the stream sessions and the HTTP server.
func (b *Broker) Close() {
	b.hub.closeAll()
	b.server.Close()
}

// ApiInfo returns credentials and base URL pointing at the fake.
func (b *Broker) ApiInfo() *eventmodels.ApiInfo {
	return &eventmodels.ApiInfo{
		BaseURL: b.server.URL,
		KeyID:   b.keyID,
		Secret:  b.secret,
	}
}

func (b *Broker) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerKeyID) != b.keyID || r.Header.Get(headerSecretKey) != b.secret {
			writeError(w, http.StatusUnauthorized, 40110000, "access key verification failed")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (b *Broker) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	account := b.account
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, account)
}

func (b *Broker) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload createOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, 40010000, fmt.Sprintf("invalid order payload: %v", err))
		return
	}

	if payload.Symbol == "" {
		writeError(w, http.StatusUnprocessableEntity, 42210000, "symbol is required")
		return
	}

	if payload.Qty.LessThanOrEqual(decimal.Zero) {
		writeError(w, http.StatusUnprocessableEntity, 42210001, "qty must be positive")
		return
	}

	now := time.Now().UTC()

	clientOrderID := payload.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	order := &brokerOrder{
		ID:            uuid.New(),
		ClientOrderID: clientOrderID,
		CreatedAt:     now,
		UpdatedAt:     &now,
		SubmittedAt:   &now,
		AssetID:       b.assetID(payload.Symbol),
		Symbol:        payload.Symbol,
		AssetClass:    "us_equity",
		Qty:           payload.Qty,
		FilledQty:     decimal.Zero,
		Type:          payload.Type,
		Side:          payload.Side,
		TimeInForce:   payload.TimeInForce,
		LimitPrice:    payload.LimitPrice,
		StopPrice:     payload.StopPrice,
		Status:        "new",
		ExtendedHours: payload.ExtendedHours,
	}

	b.mu.Lock()
	b.orders[order.ID] = order
	b.sequence = append(b.sequence, order)
	snapshot := *order
	b.mu.Unlock()

	// The stream frame goes out before the REST response: a client acting on
	// the response must not be able to race an event ahead of this one.
	b.pushTradeEvent("new", &snapshot)
	writeJSON(w, http.StatusOK, snapshot)
}

func (b *Broker) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := listOrdersQuery{Status: "open"}
	if err := b.decoder.Decode(&query, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, 40010001, fmt.Sprintf("invalid query: %v", err))
		return
	}

	symbols := make(map[string]struct{}, len(query.Symbols))
	for _, symbol := range query.Symbols {
		symbols[symbol] = struct{}{}
	}

	b.mu.Lock()
	orders := make([]brokerOrder, 0, len(b.sequence))
	for _, order := range b.sequence {
		switch query.Status {
		case "open":
			if order.isTerminal() {
				continue
			}
		case "closed":
			if !order.isTerminal() {
				continue
			}
		case "all":
		default:
			b.mu.Unlock()
			writeError(w, http.StatusBadRequest, 40010001, fmt.Sprintf("invalid status %q", query.Status))
			return
		}

		if len(symbols) > 0 {
			if _, found := symbols[order.Symbol]; !found {
				continue
			}
		}

		orders = append(orders, *order)
		if query.Limit > 0 && len(orders) == query.Limit {
			break
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, orders)
}

func (b *Broker) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := eventmodels.ParseOrderID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, 40010002, "invalid order id")
		return
	}

	b.mu.Lock()
	order, found := b.orders[uuid.UUID(id)]
	var snapshot brokerOrder
	if found {
		snapshot = *order
	}
	b.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, 40410000, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (b *Broker) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := eventmodels.ParseOrderID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, 40010002, "invalid order id")
		return
	}

	b.mu.Lock()
	order, found := b.orders[uuid.UUID(id)]
	if !found {
		b.mu.Unlock()
		writeError(w, http.StatusNotFound, 40410000, "order not found")
		return
	}

	if order.isTerminal() {
		b.mu.Unlock()
		writeError(w, http.StatusUnprocessableEntity, 42210002, "order is not cancelable")
		return
	}

	now := time.Now().UTC()
	order.Status = "canceled"
	order.CanceledAt = &now
	order.UpdatedAt = &now
	snapshot := *order
	b.mu.Unlock()

	b.pushTradeEvent("canceled", &snapshot)
	w.WriteHeader(http.StatusNoContent)
}

// FillOrder executes qty shares of the order at price and emits the matching
// trade event: partial_fill while quantity remains, fill once the order is
// complete. FilledAvgPrice accumulates the volume-weighted average across
// tranches. Orders on the fake never fill on their own; tests drive every
// fill through here.
func (b *Broker) FillOrder(id eventmodels.OrderID, qty, price decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("Broker:FillOrder(): fill qty must be positive, got %s", qty)
	}

	b.mu.Lock()
	order, found := b.orders[uuid.UUID(id)]
	if !found {
		b.mu.Unlock()
		return fmt.Errorf("Broker:FillOrder(): order %s not found", id)
	}

	if order.isTerminal() {
		b.mu.Unlock()
		return fmt.Errorf("Broker:FillOrder(): order %s already terminal", id)
	}

	remaining := order.Qty.Sub(order.FilledQty)
	if qty.GreaterThan(remaining) {
		b.mu.Unlock()
		return fmt.Errorf("Broker:FillOrder(): fill qty %s exceeds remaining %s", qty, remaining)
	}

	now := time.Now().UTC()

	filled := order.FilledQty.Add(qty)
	if order.FilledAvgPrice == nil {
		order.FilledAvgPrice = &price
	} else {
		avg := order.FilledAvgPrice.Mul(order.FilledQty).Add(price.Mul(qty)).Div(filled)
		order.FilledAvgPrice = &avg
	}
	order.FilledQty = filled
	order.UpdatedAt = &now

	event := "partial_fill"
	order.Status = "partially_filled"
	if filled.Equal(order.Qty) {
		event = "fill"
		order.Status = "filled"
		order.FilledAt = &now
	}

	snapshot := *order
	b.mu.Unlock()

	b.pushTradeEvent(event, &snapshot)

	return nil
}

// PushAccountUpdate emits one account_updates frame to every session
// listening on that stream.
func (b *Broker) PushAccountUpdate(snapshot AccountSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("Broker:PushAccountUpdate(): failed to marshal snapshot: %v", err)
		return
	}

	b.hub.broadcast(eventmodels.StreamTypeAccountUpdates, data)
}

// PushRawFrame emits an arbitrary payload on the given stream, valid JSON or
// not. Decode-failure tests feed garbage through here.
func (b *Broker) PushRawFrame(stream eventmodels.StreamType, payload []byte) {
	b.hub.broadcast(stream, payload)
}

// PushUnsolicitedFrame emits a frame to every session whether or not it
// listens on the stream, the way a real broker races frames past an
// unlisten.
func (b *Broker) PushUnsolicitedFrame(stream eventmodels.StreamType, payload []byte) {
	b.hub.broadcastAll(stream, payload)
}

// DisconnectStreams closes every stream session with a going-away frame,
// leaving the REST endpoints up.
func (b *Broker) DisconnectStreams() {
	b.hub.closeAll()
}

// Account returns the current account entity.
func (b *Broker) Account() eventmodels.BrokerAccount {
	b.mu.Lock()
	defer b.mu.Unlock()

	return eventmodels.BrokerAccount{
		ID:                   eventmodels.AccountID(b.account.ID),
		AccountNumber:        b.account.AccountNumber,
		Status:               b.account.Status,
		Currency:             b.account.Currency,
		BuyingPower:          b.account.BuyingPower,
		Cash:                 b.account.Cash,
		CashWithdrawable:     b.account.CashWithdrawable,
		PortfolioValue:       b.account.PortfolioValue,
		Equity:               b.account.Equity,
		LastEquity:           b.account.LastEquity,
		Multiplier:           b.account.Multiplier,
		DaytradeCount:        b.account.DaytradeCount,
		PatternDayTrader:     b.account.PatternDayTrader,
		ShortingEnabled:      b.account.ShortingEnabled,
		TradingBlocked:       b.account.TradingBlocked,
		TransfersBlocked:     b.account.TransfersBlocked,
		AccountBlocked:       b.account.AccountBlocked,
		TradeSuspendedByUser: b.account.TradeSuspendedByUser,
		CreatedAt:            b.account.CreatedAt,
	}
}

// assetID mints a stable identifier per symbol so that REST responses and
// stream events agree on it.
func (b *Broker) assetID(symbol string) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id, found := b.assetIDs[symbol]; found {
		return id
	}

	id := uuid.New()
	b.assetIDs[symbol] = id

	return id
}

func (b *Broker) pushTradeEvent(event string, order *brokerOrder) {
	data, err := json.Marshal(tradeEvent{Event: event, Order: order})
	if err != nil {
		log.Errorf("Broker:pushTradeEvent(): failed to marshal event: %v", err)
		return
	}

	b.hub.broadcast(eventmodels.StreamTypeTradeUpdates, data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("brokertest: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message})
}
