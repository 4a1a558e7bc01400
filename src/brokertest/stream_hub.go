package brokertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/quantara/tradestream/src/eventmodels"
)

// streamHub owns every websocket session on /stream and fans outbound frames
// to the sessions listening on a frame's stream.
type streamHub struct {
	keyID    string
	secret   string
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*streamSession]struct{}
}

type streamSession struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	listened map[eventmodels.StreamType]struct{}
}

type clientAction struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type credentials struct {
	KeyID     string `json:"key_id"`
	SecretKey string `json:"secret_key"`
}

type streamList struct {
	Streams []eventmodels.StreamType `json:"streams"`
}

type authorizationPayload struct {
	Status string `json:"status"`
	Action string `json:"action"`
}

type outboundFrame struct {
	Stream eventmodels.StreamType `json:"stream"`
	Data   json.RawMessage        `json:"data"`
}

func newStreamHub(keyID, secret string) *streamHub {
	return &streamHub{
		keyID:    keyID,
		secret:   secret,
		sessions: make(map[*streamSession]struct{}),
	}
}

func (h *streamHub) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("streamHub: failed to upgrade: %v", err)
		return
	}

	session := &streamSession{
		conn:     conn,
		listened: make(map[eventmodels.StreamType]struct{}),
	}

	if !h.authenticate(session) {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.sessions[session] = struct{}{}
	h.mu.Unlock()

	h.serve(session)

	h.mu.Lock()
	delete(h.sessions, session)
	h.mu.Unlock()

	conn.Close()
}

// authenticate expects the first frame to be the authenticate action and
// answers on the authorization control stream. A bad key pair gets an
// unauthorized verdict and a closed connection, mirroring the real broker.
func (h *streamHub) authenticate(session *streamSession) bool {
	var action clientAction
	if err := session.conn.ReadJSON(&action); err != nil {
		log.Debugf("streamHub: handshake read failed: %v", err)
		return false
	}

	var creds credentials
	if action.Action == "authenticate" {
		if err := json.Unmarshal(action.Data, &creds); err != nil {
			log.Debugf("streamHub: bad authenticate payload: %v", err)
		}
	}

	authorized := creds.KeyID == h.keyID && creds.SecretKey == h.secret

	status := "unauthorized"
	if authorized {
		status = "authorized"
	}

	payload, _ := json.Marshal(authorizationPayload{Status: status, Action: "authenticate"})
	session.write(outboundFrame{Stream: eventmodels.StreamTypeAuthorization, Data: payload})

	return authorized
}

func (h *streamHub) serve(session *streamSession) {
	for {
		var action clientAction
		if err := session.conn.ReadJSON(&action); err != nil {
			return
		}

		switch action.Action {
		case "listen":
			var list streamList
			if err := json.Unmarshal(action.Data, &list); err != nil {
				log.Debugf("streamHub: bad listen payload: %v", err)
				continue
			}

			session.setListened(list.Streams)

			payload, _ := json.Marshal(streamList{Streams: list.Streams})
			session.write(outboundFrame{Stream: eventmodels.StreamTypeListening, Data: payload})
		default:
			log.Debugf("streamHub: ignoring action %q", action.Action)
		}
	}
}

// broadcast delivers a payload to every session listening on the stream. The
// envelope is assembled by hand so tests can push payloads that are not valid
// JSON at all.
func (h *streamHub) broadcast(stream eventmodels.StreamType, payload []byte) {
	h.mu.Lock()
	sessions := make([]*streamSession, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.Unlock()

	message := []byte(fmt.Sprintf(`{"stream":%q,"data":%s}`, stream, payload))
	for _, session := range sessions {
		if session.isListening(stream) {
			session.writeRaw(message)
		}
	}
}

// broadcastAll skips the listen filter.
func (h *streamHub) broadcastAll(stream eventmodels.StreamType, payload []byte) {
	h.mu.Lock()
	sessions := make([]*streamSession, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.Unlock()

	message := []byte(fmt.Sprintf(`{"stream":%q,"data":%s}`, stream, payload))
	for _, session := range sessions {
		session.writeRaw(message)
	}
}

func (h *streamHub) closeAll() {
	h.mu.Lock()
	sessions := make([]*streamSession, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}
}

func (s *streamSession) setListened(streams []eventmodels.StreamType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listened = make(map[eventmodels.StreamType]struct{}, len(streams))
	for _, stream := range streams {
		s.listened[stream] = struct{}{}
	}
}

func (s *streamSession) isListening(stream eventmodels.StreamType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.listened[stream]
	return found
}

func (s *streamSession) write(frame outboundFrame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(frame); err != nil {
		log.Debugf("streamSession: write failed: %v", err)
	}
}

func (s *streamSession) writeRaw(message []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		log.Debugf("streamSession: write failed: %v", err)
	}
}

func (s *streamSession) close() {
	s.writeMu.Lock()
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	s.writeMu.Unlock()

	s.conn.Close()
}
