package eventstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/quantara/tradestream/src/eventmodels"
)

// ErrNotAuthenticated is returned when the broker refuses the key pair during
// the stream handshake. Callers match on the exact message text.
var ErrNotAuthenticated = errors.New("authentication not successful")

const (
	handshakeTimeout = 10 * time.Second
	listenAckTimeout = 10 * time.Second
	listenAckBacklog = 8
	frameBufferSize  = 64
)

// StreamConn owns one authenticated websocket connection to the broker and
// multiplexes all stream subscriptions over it. A background goroutine reads
// frames and routes each one to the subscriber registered for its stream;
// frames for streams nobody subscribed to are dropped. The connection never
// reconnects on its own: when the transport fails, every subscription
// terminates and the caller decides whether to dial again.
type StreamConn struct {
	conn *websocket.Conn

	writeMu sync.Mutex // serializes frame writes
	subMu   sync.Mutex // serializes whole subscribe handshakes

	mu             sync.Mutex
	subscribers    map[eventmodels.StreamType]*subscriber
	closed         bool
	closeRequested bool
	closeErr       error

	listening chan listeningData
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// subscriber is the untyped consumer handle the read loop feeds. frames is
// closed by the read loop alone, when the connection terminates; quit is
// closed when the subscription is torn down locally.
type subscriber struct {
	stream eventmodels.StreamType
	frames chan json.RawMessage
	quit   chan struct{}
}

// Connect dials the broker's stream endpoint derived from apiInfo and runs
// the authentication handshake. A rejected key pair fails with
// ErrNotAuthenticated. The context bounds the dial and, after a successful
// handshake, the lifetime of the connection: cancelling it closes the socket
// and terminates every subscription.
func Connect(ctx context.Context, apiInfo *eventmodels.ApiInfo) (*StreamConn, error) {
	streamURL, err := apiInfo.StreamURL()
	if err != nil {
		return nil, fmt.Errorf("Connect: %w", err)
	}

	log.Debugf("connecting to %s", streamURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("Connect: failed to dial %s: %w", streamURL, err)
	}

	if err := authenticate(ctx, conn, apiInfo); err != nil {
		conn.Close()
		return nil, err
	}

	c := &StreamConn{
		conn:        conn,
		subscribers: make(map[eventmodels.StreamType]*subscriber),
		listening:   make(chan listeningData, listenAckBacklog),
		closing:     make(chan struct{}),
		done:        make(chan struct{}),
	}

	go c.readLoop()
	go c.watchContext(ctx)

	return c, nil
}

// authenticate runs the synchronous handshake before the read loop exists:
// send the key pair, then read until the broker renders its verdict on the
// authorization control stream.
func authenticate(ctx context.Context, conn *websocket.Conn, apiInfo *eventmodels.ApiInfo) error {
	request := authenticateRequest{
		Action: actionAuthenticate,
		Data: authenticateData{
			KeyID:     apiInfo.KeyID,
			SecretKey: apiInfo.Secret,
		},
	}

	if err := conn.WriteJSON(request); err != nil {
		return fmt.Errorf("Connect: failed to send authenticate frame: %w", err)
	}

	deadline := time.Now().Add(handshakeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("Connect: failed to set handshake deadline: %w", err)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("Connect: failed to read authorization frame: %w", err)
		}

		var frame serverFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			return fmt.Errorf("Connect: failed to unmarshal authorization frame: %w", err)
		}

		if frame.Stream != eventmodels.StreamTypeAuthorization {
			log.Debugf("Connect: skipping %s frame during handshake", frame.Stream)
			continue
		}

		var data authorizationData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return fmt.Errorf("Connect: failed to unmarshal authorization data: %w", err)
		}

		if data.Status != authStatusAuthorized {
			return ErrNotAuthenticated
		}

		// Idle streams are legitimate; from here on reads wait as long as
		// they must.
		if err := conn.SetReadDeadline(time.Time{}); err != nil {
			return fmt.Errorf("Connect: failed to clear read deadline: %w", err)
		}

		return nil
	}
}

func (c *StreamConn) readLoop() {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			c.finish(err)
			return
		}

		var frame serverFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Warnf("StreamConn: dropping unparseable frame: %v", err)
			continue
		}

		switch frame.Stream {
		case eventmodels.StreamTypeListening:
			c.deliverListening(frame)
		case eventmodels.StreamTypeAuthorization:
			log.Warnf("StreamConn: unexpected authorization frame after handshake")
		default:
			c.deliverData(frame)
		}
	}
}

func (c *StreamConn) deliverListening(frame serverFrame) {
	var data listeningData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		log.Warnf("StreamConn: dropping unparseable listening frame: %v", err)
		return
	}

	select {
	case c.listening <- data:
	default:
		// backlog full: no subscribe has been waiting on acknowledgements
	}
}

func (c *StreamConn) deliverData(frame serverFrame) {
	c.mu.Lock()
	sub, found := c.subscribers[frame.Stream]
	c.mu.Unlock()

	if !found {
		log.Debugf("StreamConn: no subscriber for stream %s, dropping frame", frame.Stream)
		return
	}

	// Block rather than drop: a slow consumer backpressures the read loop so
	// frames keep their wire order. A connection shutdown still gets through.
	select {
	case sub.frames <- frame.Data:
	case <-sub.quit:
	case <-c.closing:
	}
}

// subscribe registers a consumer handle for the stream and runs the listen
// handshake. One consumer per stream per connection.
func (c *StreamConn) subscribe(ctx context.Context, stream eventmodels.StreamType) (*subscriber, error) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("StreamConn:subscribe(): connection is closed")
	}

	if _, found := c.subscribers[stream]; found {
		c.mu.Unlock()
		return nil, fmt.Errorf("StreamConn:subscribe(): already subscribed to %s", stream)
	}

	sub := &subscriber{
		stream: stream,
		frames: make(chan json.RawMessage, frameBufferSize),
		quit:   make(chan struct{}),
	}

	c.subscribers[stream] = sub
	streams := c.streamListLocked()
	c.mu.Unlock()

	c.drainListening()

	if err := c.writeListen(streams); err != nil {
		c.dropSubscriber(stream)
		return nil, fmt.Errorf("StreamConn:subscribe(): failed to send listen frame: %w", err)
	}

	if err := c.awaitListenAck(ctx, stream); err != nil {
		c.dropSubscriber(stream)
		return nil, err
	}

	log.Infof("subscribed to %s", stream)

	return sub, nil
}

// drainListening discards acknowledgements already buffered before a new
// listen goes out. unsubscribe re-declares the listen set without awaiting
// the echoed acknowledgement, so one can still sit in the buffer here; the
// acknowledgement for the upcoming listen cannot arrive before that listen
// is written. Runs under subMu.
func (c *StreamConn) drainListening() {
	for {
		select {
		case <-c.listening:
		default:
			return
		}
	}
}

func (c *StreamConn) awaitListenAck(ctx context.Context, stream eventmodels.StreamType) error {
	timer := time.NewTimer(listenAckTimeout)
	defer timer.Stop()

	for {
		select {
		case ack := <-c.listening:
			for _, acked := range ack.Streams {
				if acked == stream {
					return nil
				}
			}
			// acknowledgement for an earlier listen; keep waiting
		case <-ctx.Done():
			return fmt.Errorf("StreamConn:subscribe(): %w", ctx.Err())
		case <-c.done:
			return fmt.Errorf("StreamConn:subscribe(): connection closed while awaiting listen acknowledgement")
		case <-timer.C:
			return fmt.Errorf("StreamConn:subscribe(): timed out awaiting listen acknowledgement for %s", stream)
		}
	}
}

// unsubscribe tears down the stream's consumer handle and re-declares the
// remaining streams. The re-listen is best effort: on a dying connection the
// write may fail, which changes nothing for the caller.
func (c *StreamConn) unsubscribe(stream eventmodels.StreamType) {
	remaining, found := c.dropSubscriber(stream)
	if !found {
		return
	}

	if err := c.writeListen(remaining); err != nil {
		log.Debugf("StreamConn: failed to send listen frame on unsubscribe: %v", err)
		return
	}

	log.Infof("unsubscribed from %s", stream)
}

// dropSubscriber removes the registration and signals quit, returning the
// streams still subscribed.
func (c *StreamConn) dropSubscriber(stream eventmodels.StreamType) ([]eventmodels.StreamType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, found := c.subscribers[stream]
	if !found {
		return nil, false
	}

	delete(c.subscribers, stream)
	close(sub.quit)

	return c.streamListLocked(), true
}

func (c *StreamConn) streamListLocked() []eventmodels.StreamType {
	streams := make([]eventmodels.StreamType, 0, len(c.subscribers))
	for stream := range c.subscribers {
		streams = append(streams, stream)
	}

	return streams
}

func (c *StreamConn) writeListen(streams []eventmodels.StreamType) error {
	request := listenRequest{
		Action: actionListen,
		Data:   listenData{Streams: streams},
	}

	return c.writeJSON(request)
}

func (c *StreamConn) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteJSON(v)
}

// finish runs exactly once, when the read loop exits. It records the
// terminal error and closes every subscriber's frame channel, which in turn
// closes each subscription's result channel.
func (c *StreamConn) finish(readErr error) {
	c.mu.Lock()

	c.closed = true
	if !c.closeRequested {
		c.closeErr = normalizeCloseError(readErr)
	}

	subs := make([]*subscriber, 0, len(c.subscribers))
	for _, sub := range c.subscribers {
		subs = append(subs, sub)
	}
	c.subscribers = make(map[eventmodels.StreamType]*subscriber)

	c.mu.Unlock()

	for _, sub := range subs {
		close(sub.frames)
	}

	c.closeOnce.Do(func() { close(c.closing) })
	close(c.done)
	c.conn.Close()

	if err := c.Err(); err != nil {
		log.Errorf("StreamConn: connection terminated: %v", err)
	} else {
		log.Info("StreamConn: connection closed")
	}
}

// normalizeCloseError maps an orderly goodbye to nil; everything else is a
// transport failure worth reporting.
func normalizeCloseError(err error) error {
	if err == nil {
		return nil
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}

	return fmt.Errorf("StreamConn: transport failed: %w", err)
}

func (c *StreamConn) watchContext(ctx context.Context) {
	select {
	case <-ctx.Done():
		c.closeWith(ctx.Err())
	case <-c.done:
	}
}

func (c *StreamConn) closeWith(err error) {
	c.mu.Lock()
	if !c.closed && !c.closeRequested {
		c.closeRequested = true
		c.closeErr = err
	}
	c.mu.Unlock()

	// Unblocks the read loop, whether it sits in ReadMessage or in a
	// backpressured delivery; finish then runs with closeErr already decided.
	c.closeOnce.Do(func() { close(c.closing) })
	c.conn.Close()
}

// Close shuts the connection down deliberately. Every subscription's channel
// closes and their Err reports nil.
func (c *StreamConn) Close() error {
	c.closeWith(nil)
	<-c.done

	return nil
}

// Done closes when the connection has fully terminated.
func (c *StreamConn) Done() <-chan struct{} {
	return c.done
}

// Err reports why the connection terminated: nil for a deliberate or orderly
// close, the context error if the governing context was cancelled, the
// transport error otherwise. Err is meaningful once Done is closed.
func (c *StreamConn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closeErr
}
