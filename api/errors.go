package api

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport failure: the request never produced an
// HTTP response (DNS, connect, TLS, timeout). It is a distinct kind from
// StatusError so callers can tell "server unreachable" from "server said no".
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is an HTTP response with a non-2xx status. Message carries
// the backend's error message when the body could be decoded.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsNetworkError reports whether err is (or wraps) a transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

