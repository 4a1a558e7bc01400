package eventstream

import (
	"encoding/json"

	"github.com/quantara/tradestream/src/eventmodels"
)

const (
	actionAuthenticate = "authenticate"
	actionListen       = "listen"

	authStatusAuthorized = "authorized"
)

// Client frames. Every message the client sends is an action wrapping a data
// object; listen declares the full set of streams the client wants, and the
// broker's listening reply echoes the active set.
type authenticateRequest struct {
	Action string           `json:"action"`
	Data   authenticateData `json:"data"`
}

type authenticateData struct {
	KeyID     string `json:"key_id"`
	SecretKey string `json:"secret_key"`
}

type listenRequest struct {
	Action string     `json:"action"`
	Data   listenData `json:"data"`
}

type listenData struct {
	Streams []eventmodels.StreamType `json:"streams"`
}

// serverFrame is the envelope around every inbound message: the stream the
// payload belongs to plus the payload itself, left raw until a subscriber's
// decoder takes over.
type serverFrame struct {
	Stream eventmodels.StreamType `json:"stream"`
	Data   json.RawMessage        `json:"data"`
}

type authorizationData struct {
	Status string `json:"status"`
	Action string `json:"action"`
}

type listeningData struct {
	Streams []eventmodels.StreamType `json:"streams"`
}
