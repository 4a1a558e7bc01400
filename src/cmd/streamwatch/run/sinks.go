package run

import (
	"fmt"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantara/tradestream/src/eventmodels"
	"github.com/quantara/tradestream/src/eventpubsub"
	"github.com/quantara/tradestream/src/eventstream"
)

// PumpAccountUpdates forwards stream results onto the event bus until the
// subscription channel closes.
func PumpAccountUpdates(wg *sync.WaitGroup, sub *eventstream.Subscription[eventmodels.AccountUpdate]) {
	defer wg.Done()

	for result := range sub.Events() {
		if result.Err != nil {
			eventpubsub.Publish(eventpubsub.StreamErrorEvent, result.Err)
			continue
		}

		eventpubsub.Publish(eventpubsub.AccountUpdateEvent, result.Event)
	}
}

// PumpTradeUpdates forwards stream results onto the event bus until the
// subscription channel closes.
func PumpTradeUpdates(wg *sync.WaitGroup, sub *eventstream.Subscription[eventmodels.TradeUpdate]) {
	defer wg.Done()

	for result := range sub.Events() {
		if result.Err != nil {
			eventpubsub.Publish(eventpubsub.StreamErrorEvent, result.Err)
			continue
		}

		eventpubsub.Publish(eventpubsub.TradeUpdateEvent, result.Event)
	}
}

func LogTradeUpdate(update eventmodels.TradeUpdate) {
	log.WithFields(log.Fields{
		"event":      update.Event,
		"order_id":   update.Order.ID,
		"status":     update.Order.Status,
		"qty":        update.Order.Qty,
		"filled_qty": update.Order.FilledQty,
	}).Infof("trade update: %s %s %s", update.Order.Side, update.Order.Symbol, update.Event)
}

func LogStreamError(err error) {
	log.Errorf("stream error: %v", err)
}

func LogOrderStatusChange(ev *eventmodels.OrderStatusChangeEvent) {
	log.Infof("order %s status changed: %s -> %s", ev.OrderID, ev.Old, ev.New)
}

// FormatAccountUpdate renders an account snapshot as a table for terminal
// display.
func FormatAccountUpdate(update eventmodels.AccountUpdate) string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)

	table.SetHeader([]string{"Account", "Status", "Currency", "Cash", "Withdrawable"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")
	display.WriteString("Account Update:\n")

	cash, _ := update.Cash.Float64()
	withdrawable, _ := update.WithdrawableCash.Float64()

	table.Append([]string{
		update.ID.String(),
		update.Status,
		update.Currency,
		fmt.Sprintf("$%s", p.Sprintf("%.2f", cash)),
		fmt.Sprintf("$%s", p.Sprintf("%.2f", withdrawable)),
	})

	table.Render()
	return display.String()
}

func RenderAccountUpdate(update eventmodels.AccountUpdate) {
	fmt.Println(FormatAccountUpdate(update))
}

// TradeRecorder buffers trade updates so they can be exported as a single
// CSV file on shutdown.
type TradeRecorder struct {
	mu   sync.Mutex
	rows []*eventmodels.TradeUpdateCsvDTO
}

func NewTradeRecorder() *TradeRecorder {
	return &TradeRecorder{}
}

func (r *TradeRecorder) OnTradeUpdate(update eventmodels.TradeUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, eventmodels.NewTradeUpdateCsvDTO(update))
}

func (r *TradeRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rows)
}
