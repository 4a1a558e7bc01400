package eventmodels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TradeStatus(t *testing.T) {
	t.Run("parse every documented wire name", func(t *testing.T) {
		// arrange
		wireNames := []string{
			"new",
			"partial_fill",
			"fill",
			"done_for_day",
			"canceled",
			"expired",
			"pending_cancel",
			"stopped",
			"rejected",
			"suspended",
			"pending_new",
			"calculated",
		}

		for _, wireName := range wireNames {
			// act
			status, err := ParseTradeStatus(wireName)

			// assert
			require.NoError(t, err)
			assert.Equal(t, TradeStatus(wireName), status)
		}
	})

	t.Run("unknown wire name fails and names the value", func(t *testing.T) {
		// act
		_, err := ParseTradeStatus("halted")

		// assert
		require.Error(t, err)

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, StreamTypeTradeUpdates, decodeErr.Stream)
		assert.Equal(t, "event", decodeErr.Field)
		assert.Equal(t, "halted", decodeErr.Value)
		assert.Contains(t, err.Error(), "halted")
	})

	t.Run("empty wire name fails", func(t *testing.T) {
		// act
		_, err := ParseTradeStatus("")

		// assert
		assert.Error(t, err)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		// arrange
		terminal := []TradeStatus{TradeStatusFill, TradeStatusCanceled, TradeStatusExpired, TradeStatusRejected}
		nonTerminal := []TradeStatus{
			TradeStatusNew,
			TradeStatusPartialFill,
			TradeStatusDoneForDay,
			TradeStatusPendingCancel,
			TradeStatusStopped,
			TradeStatusSuspended,
			TradeStatusPendingNew,
			TradeStatusCalculated,
		}

		// assert
		for _, status := range terminal {
			assert.True(t, status.IsTerminal(), "expected %s to be terminal", status)
		}

		for _, status := range nonTerminal {
			assert.False(t, status.IsTerminal(), "expected %s to not be terminal", status)
		}
	})
}
