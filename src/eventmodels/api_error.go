package eventmodels

import "fmt"

// APIError is a non-2xx response from the broker's REST API, carrying the
// broker's own error code alongside the HTTP status.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("broker API error (http %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf("broker API error (http %d): %s", e.StatusCode, e.Message)
}

func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}
