package eventstream

import (
	"sync/atomic"

	"github.com/quantara/tradestream/src/eventmodels"
)

// StreamResult is one element of a subscription's delivered sequence: either
// a decoded event or the decode error the frame produced. A decode error is
// per-frame and the sequence continues past it.
type StreamResult[E any] struct {
	Event E
	Err   error
}

// Subscription is a consumer handle on one stream of a shared connection.
// Events yields results in wire order until the connection terminates, at
// which point the channel closes and Err reports why.
type Subscription[E any] struct {
	conn   *StreamConn
	stream eventmodels.StreamType
	decode func([]byte) (E, error)

	results chan StreamResult[E]
	closed  atomic.Bool
}

func newSubscription[E any](conn *StreamConn, sub *subscriber, decode func([]byte) (E, error)) *Subscription[E] {
	s := &Subscription[E]{
		conn:    conn,
		stream:  sub.stream,
		decode:  decode,
		results: make(chan StreamResult[E], frameBufferSize),
	}

	go s.pump(sub)

	return s
}

// pump turns raw frames into typed results, one goroutine per subscription
// so wire order survives.
func (s *Subscription[E]) pump(sub *subscriber) {
	defer close(s.results)

	for {
		select {
		case raw, ok := <-sub.frames:
			if !ok {
				return
			}

			result := StreamResult[E]{}
			result.Event, result.Err = s.decode(raw)

			select {
			case s.results <- result:
			case <-sub.quit:
				return
			}
		case <-sub.quit:
			return
		}
	}
}

// Events returns the delivered sequence. The channel closes when the
// subscription ends, for any reason; consult Err afterwards.
func (s *Subscription[E]) Events() <-chan StreamResult[E] {
	return s.results
}

// StreamType names the stream this subscription consumes.
func (s *Subscription[E]) StreamType() eventmodels.StreamType {
	return s.stream
}

// Close unsubscribes the stream from the shared connection. The connection
// itself stays up for other subscribers. Close is idempotent.
func (s *Subscription[E]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.conn.unsubscribe(s.stream)
	}
}

// Err reports why the sequence ended: nil when the subscription was closed
// deliberately or the connection shut down cleanly, otherwise the context or
// transport error that killed the connection. Meaningful once Events is
// closed.
func (s *Subscription[E]) Err() error {
	if s.closed.Load() {
		return nil
	}

	return s.conn.Err()
}
