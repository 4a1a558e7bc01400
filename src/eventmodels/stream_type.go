package eventmodels

// StreamType identifies one multiplexed stream on the broker's websocket
// endpoint. Data streams carry events; the control streams carry the
// authentication and listen handshakes.
type StreamType string

const (
	StreamTypeAccountUpdates StreamType = "account_updates"
	StreamTypeTradeUpdates   StreamType = "trade_updates"
	StreamTypeAuthorization  StreamType = "authorization"
	StreamTypeListening      StreamType = "listening"
)

func (s StreamType) String() string {
	return string(s)
}

func (s StreamType) IsControl() bool {
	return s == StreamTypeAuthorization || s == StreamTypeListening
}
