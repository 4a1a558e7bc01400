package eventmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The broker encodes optional timestamps as RFC3339 strings, null, or an
// empty string; the last two both mean "not set". Anything else is a decode
// error that names the field.
func parseOptionalTimestamp(stream StreamType, field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	ts, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, &DecodeError{Stream: stream, Field: field, Value: *value, Err: err}
	}

	return &ts, nil
}

func requireTimestamp(stream StreamType, field string, value *string) (time.Time, error) {
	ts, err := parseOptionalTimestamp(stream, field, value)
	if err != nil {
		return time.Time{}, err
	}

	if ts == nil {
		return time.Time{}, NewMissingFieldError(stream, field)
	}

	return *ts, nil
}

func requireDecimal(stream StreamType, field string, value *decimal.Decimal) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Decimal{}, NewMissingFieldError(stream, field)
	}

	return *value, nil
}

func requireString(stream StreamType, field string, value *string) (string, error) {
	if value == nil {
		return "", NewMissingFieldError(stream, field)
	}

	return *value, nil
}

func requireUUID(stream StreamType, field string, value *string) (uuid.UUID, error) {
	if value == nil {
		return uuid.UUID{}, NewMissingFieldError(stream, field)
	}

	id, err := uuid.Parse(*value)
	if err != nil {
		return uuid.UUID{}, &DecodeError{Stream: stream, Field: field, Value: *value, Err: err}
	}

	return id, nil
}
