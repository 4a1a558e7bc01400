package eventmodels

// EventStream ties a stream tag to the broker stream it names and to the
// typed event that stream carries. Each tag binds exactly one stream id to
// exactly one event type, so resolving the pair is a compile-time lookup
// rather than a runtime registry.
//
// AccountUpdates and TradeUpdates are the two data streams the broker
// exposes; callers pass the tag types to the subscription layer and never
// construct tag values themselves.
type EventStream[E any] interface {
	// StreamType returns the wire identifier of the stream.
	StreamType() StreamType
	// DecodeEvent converts one frame payload from the stream into the typed
	// event, validating required fields and closed value sets.
	DecodeEvent(data []byte) (E, error)
}

var (
	_ EventStream[AccountUpdate] = AccountUpdates{}
	_ EventStream[TradeUpdate]   = TradeUpdates{}
)
