package backend

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by every network operation when no backend
// endpoint has been configured. No request is attempted.
var ErrNotConfigured = errors.New("backend endpoint not configured")

// TransportError means the request could not complete
type TransportError struct {
	Action string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error text, or "" when there is none
func (e *TransportError) Cause() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ProtocolError means the response body was not the expected JSON shape
type ProtocolError struct {
	Action string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Action, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// BackendError is a well-formed response whose status was not "ok"
type BackendError struct {
	Action  string
	Status  string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %q", e.Action, e.Status)
	}
	return fmt.Sprintf("%s: backend returned status %q: %s", e.Action, e.Status, e.Message)
}
