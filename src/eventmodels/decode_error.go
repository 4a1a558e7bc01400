package eventmodels

import "fmt"

// DecodeError reports a broker payload that could not be converted into its
// typed event. Field holds the wire name of the offending field when known,
// Value the offending input.
type DecodeError struct {
	Stream StreamType
	Field  string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s", e.Stream)

	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
	}

	if e.Value != "" {
		msg = fmt.Sprintf("%s: offending value %q", msg, e.Value)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func NewMissingFieldError(stream StreamType, field string) *DecodeError {
	return &DecodeError{
		Stream: stream,
		Field:  field,
		Err:    fmt.Errorf("required field is missing"),
	}
}
