package api

import (
	"encoding/json"
	"strings"
)

// DefaultErrorMessage is used when a failure response carries no usable detail.
const DefaultErrorMessage = "request failed"

// TransportError is the single failure shape returned by Client. StatusCode is
// zero when no response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NotFound reports whether the API answered 404.
func (e *TransportError) NotFound() bool {
	return e != nil && e.StatusCode == 404
}

// detailMessage extracts the "detail" of a failure body, falling back to
// DefaultErrorMessage. Validation errors arrive as a list of objects; their
// "msg" entries are joined. Any other non-string detail is rendered as JSON.
func detailMessage(body []byte) string {
	if len(body) == 0 {
		return DefaultErrorMessage
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return DefaultErrorMessage
	}

	var msg string
	switch detail := envelope.Detail.(type) {
	case nil:
		return DefaultErrorMessage
	case string:
		msg = detail
	case []any:
		msg = joinValidationMessages(detail)
		if msg == "" {
			msg = compactJSON(detail)
		}
	default:
		msg = compactJSON(detail)
	}
	if strings.TrimSpace(msg) == "" {
		return DefaultErrorMessage
	}
	return msg
}

func joinValidationMessages(entries []any) string {
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return ""
		}
		m, ok := obj["msg"].(string)
		if !ok || strings.TrimSpace(m) == "" {
			return ""
		}
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
