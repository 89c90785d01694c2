package backend

import (
	"encoding/json"
	"fmt"
)

// APIError is an HTTP error response from the backend, carrying the
// backend-supplied message when one can be extracted from the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: unexpected status code %d", e.StatusCode)
}

// newAPIError extracts a human-readable message from an error body.
// The backend is inconsistent: some endpoints use "error", some
// "message" or "detail", and validation failures map field names to
// arrays of messages.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}
	for _, field := range []string{"error", "message", "detail"} {
		var s string
		if raw, ok := payload[field]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			e.Message = s
			return e
		}
	}
	for _, raw := range payload {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			e.Message = msgs[0]
			return e
		}
	}
	return e
}
