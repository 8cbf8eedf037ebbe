package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned for any response with transport status 401
var ErrSessionExpired = errors.New("session expired")

// APIError is an application-level error payload returned by the backend
type APIError struct {
	StatusCode int
	Message    string
	Kind       string // the payload's "error" field, e.g. "Bad Request"
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) String() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// SessionExpiredError is the failure for a 401 response. It matches
// ErrSessionExpired and, when the body was an error payload, unwraps to it.
type SessionExpiredError struct {
	Payload *APIError
}

func (e *SessionExpiredError) Error() string {
	if e.Payload == nil {
		return ErrSessionExpired.Error()
	}
	return ErrSessionExpired.Error() + ": " + e.Payload.Message
}

func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *SessionExpiredError) Unwrap() error {
	if e.Payload == nil {
		return nil
	}
	return e.Payload
}

// successCodes are the payload status codes that never mark an error
var successCodes = map[int]bool{
	http.StatusOK:      true,
	http.StatusCreated: true,
}

// Classify decides the outcome of a response.
//
// Precedence:
//  1. transport status 401 always fails with ErrSessionExpired; the body is
//     only consulted to carry its message along.
//  2. otherwise only the body decides: it is an error payload when it has a
//     statusCode outside {200, 201} and a non-empty message. Everything else
//     is a success, whatever the transport status.
//
// An empty body is treated as JSON null. A body that is not JSON fails,
// except on 401.
func Classify(status int, body []byte) error {
	payload, decodeErr := errorPayload(body)

	if status == http.StatusUnauthorized {
		return &SessionExpiredError{Payload: payload}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to parse response (HTTP %d): %w", status, decodeErr)
	}
	if payload != nil {
		return payload
	}
	return nil
}

// errorPayload returns the body as an APIError if it has the error shape
func errorPayload(body []byte) (*APIError, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, nil
	}

	rawCode, present := obj["statusCode"]
	if !present || rawCode == nil {
		return nil, nil
	}

	code, numeric := rawCode.(float64)
	if numeric && successCodes[int(code)] {
		return nil, nil
	}

	message := messageText(obj["message"])
	if message == "" {
		return nil, nil
	}

	apiErr := &APIError{Message: message}
	if numeric {
		apiErr.StatusCode = int(code)
	}
	if kind, ok := obj["error"].(string); ok {
		apiErr.Kind = kind
	}
	return apiErr, nil
}

// messageText flattens a message field that may be a string or a list of
// validation messages
func messageText(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s := messageText(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case bool:
		if !m {
			return ""
		}
	}
	return fmt.Sprint(v)
}
