package airtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches errors for records or tables that do not exist.
var ErrNotFound = errors.New("airtable: not found")

// APIError is a non-2xx response from Airtable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: %d %s", e.StatusCode, e.Type)
}

// Is reports 404 responses as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// parseAPIError understands both error shapes Airtable emits:
// {"error":{"type":"...","message":"..."}} and {"error":"NOT_FOUND"}.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Type: http.StatusText(status)}
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &env) != nil || len(env.Error) == 0 {
		return e
	}
	var detailed struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if json.Unmarshal(env.Error, &detailed) == nil && detailed.Type != "" {
		e.Type, e.Message = detailed.Type, detailed.Message
		return e
	}
	var code string
	if json.Unmarshal(env.Error, &code) == nil && code != "" {
		e.Type = code
	}
	return e
}
