package eventmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ApiInfo(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		// arrange
		t.Setenv("BROKER_API_BASE_URL", "https://api.example.com/v2")
		t.Setenv("BROKER_API_KEY_ID", "key-id")
		t.Setenv("BROKER_API_SECRET_KEY", "secret")

		// act
		info, err := NewApiInfoFromEnv()

		// assert
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v2", info.BaseURL)
		assert.Equal(t, "key-id", info.KeyID)
		assert.Equal(t, "secret", info.Secret)
	})

	t.Run("missing credentials fail", func(t *testing.T) {
		// arrange
		t.Setenv("BROKER_API_KEY_ID", "")
		t.Setenv("BROKER_API_SECRET_KEY", "")

		// act
		_, err := NewApiInfoFromEnv()

		// assert
		assert.Error(t, err)
	})

	t.Run("stream url swaps scheme and appends path", func(t *testing.T) {
		// arrange
		info := &ApiInfo{BaseURL: "https://api.example.com"}

		// act
		streamURL, err := info.StreamURL()

		// assert
		require.NoError(t, err)
		assert.Equal(t, "wss://api.example.com/stream", streamURL)
	})

	t.Run("stream url keeps http as ws for local brokers", func(t *testing.T) {
		// arrange
		info := &ApiInfo{BaseURL: "http://127.0.0.1:8080"}

		// act
		streamURL, err := info.StreamURL()

		// assert
		require.NoError(t, err)
		assert.Equal(t, "ws://127.0.0.1:8080/stream", streamURL)
	})

	t.Run("stream url rejects unsupported scheme", func(t *testing.T) {
		// arrange
		info := &ApiInfo{BaseURL: "ftp://api.example.com"}

		// act
		_, err := info.StreamURL()

		// assert
		assert.Error(t, err)
	})
}
