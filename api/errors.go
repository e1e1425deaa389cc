package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/oops"
)

var (
	// ErrUnauthorized matches any 401 response.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrTransport wraps failures to reach the backend.
	ErrTransport = errors.New("api: transport failure")
	// ErrDecode wraps undecodable 2xx responses.
	ErrDecode = errors.New("api: undecodable response")
	// ErrInvalidBaseURL is returned by [New] for a missing or non-HTTP base URL.
	ErrInvalidBaseURL = errors.New("api: invalid base URL")
	// ErrInvalidPathSegment is returned before any request for an empty or dot path segment.
	ErrInvalidPathSegment = errors.New("api: invalid path segment")
)

// Error is a non-2xx response.
type Error struct {
	Status    int
	Message   string
	RequestID string
	Method    string
	Path      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Is matches [ErrUnauthorized] for 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Code is the oops code the error is wrapped with.
func (e *Error) Code() string {
	return fmt.Sprintf("API_%d", e.Status)
}

func (e *Error) wrap() error {
	return oops.
		Code(e.Code()).
		With("status", e.Status).
		With("method", e.Method).
		With("path", e.Path).
		With("request_id", e.RequestID).
		Wrap(e)
}

// AsError extracts the response error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the backend's message carried by err, or fallback when err is not a
// response error or the backend sent no message.
func Message(err error, fallback string) string {
	if apiErr, ok := AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return 0
}
