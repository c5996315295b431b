package client

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	// ErrNetwork marks transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")

	// ErrNotFound marks identifiers that do not resolve to a resource.
	ErrNotFound = errors.New("not found")

	// ErrDecode marks malformed or invalid response bodies.
	ErrDecode = errors.New("decode error")
)

// NetworkError is returned for transport failures and non-2xx responses
// other than 404.
type NetworkError struct {
	Endpoint   string
	StatusCode int // 0 for transport failures
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("GET %s: status %d", e.Endpoint, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("GET %s: network error", e.Endpoint)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// NotFoundError is returned when a resource identifier does not resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DecodeError is returned when a response body cannot be decoded or fails
// ingestion validation.
type DecodeError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Endpoint, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrorClass represents a classification of failures for metrics and logs.
type ErrorClass string

const (
	// ErrorClassNotFound represents 404 responses.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassClient represents other 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents malformed bodies.
	ErrorClassDecode ErrorClass = "decode"
)

// classifyStatus maps an HTTP status to an ErrorClass. 2xx and 304 yield "".
func classifyStatus(status int) ErrorClass {
	switch {
	case status == 404:
		return ErrorClassNotFound
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	case status >= 300 && status != 304:
		return ErrorClassClient
	default:
		return ""
	}
}
