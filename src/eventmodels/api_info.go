package eventmodels

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// ApiInfo carries everything needed to talk to the broker: the REST base URL
// and the key pair used both for REST headers and the stream handshake.
type ApiInfo struct {
	BaseURL string `env:"BROKER_API_BASE_URL" envDefault:"https://paper-api.quantara.io"`
	KeyID   string `env:"BROKER_API_KEY_ID,required,notEmpty"`
	Secret  string `env:"BROKER_API_SECRET_KEY,required,notEmpty"`
}

func NewApiInfoFromEnv() (*ApiInfo, error) {
	var info ApiInfo
	if err := env.Parse(&info); err != nil {
		return nil, fmt.Errorf("NewApiInfoFromEnv: failed to parse environment variables: %w", err)
	}

	return &info, nil
}

// StreamURL derives the websocket endpoint from the REST base URL.
func (info *ApiInfo) StreamURL() (string, error) {
	u, err := url.Parse(info.BaseURL)
	if err != nil {
		return "", fmt.Errorf("ApiInfo:StreamURL(): failed to parse base URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("ApiInfo:StreamURL(): unsupported scheme %q", u.Scheme)
	}

	u.Path, err = url.JoinPath(u.Path, "stream")
	if err != nil {
		return "", fmt.Errorf("ApiInfo:StreamURL(): failed to join path: %w", err)
	}

	return u.String(), nil
}
