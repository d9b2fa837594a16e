package types

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is the normalized form of every network-boundary failure.
// A zero StatusCode means the error was raised client-side and no server
// was involved (validation failures).
type HTTPError struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// NewHTTPError builds an error from a non-2xx server response.
func NewHTTPError(statusCode int, message string) *HTTPError {
	if message == "" {
		message = "Unknown error"
	}
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// NewClientError builds a client-side validation error.
func NewClientError(format string, args ...any) *HTTPError {
	return &HTTPError{StatusCode: 0, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a not-found class of server error,
// which for a session load means expired or never existed.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound ||
			httpErr.StatusCode == http.StatusGone
	}
	return false
}

// IsAuthRequired distinguishes "not logged in" from generic transport
// failures so anonymous-tolerant paths can skip the alert.
func IsAuthRequired(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized ||
			httpErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsClientSide reports whether err never reached the network.
func IsClientSide(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 0
	}
	return false
}
