package hubapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind categorizes API failures for programmatic handling.
type ErrorKind int

const (
	// KindNetwork means the hub could not be reached or the connection failed.
	KindNetwork ErrorKind = iota

	// KindCanceled means the caller's context ended before a response.
	KindCanceled

	// KindBadRequest means the hub rejected the request as invalid.
	KindBadRequest

	// KindUnauthorized means the token is missing, expired or insufficient.
	KindUnauthorized

	// KindNotFound means the paper, article or note does not exist.
	KindNotFound

	// KindRateLimited means the hub asked us to slow down.
	KindRateLimited

	// KindServer means the hub failed or reported success=false.
	KindServer

	// KindInvalidResponse means the body could not be decoded.
	KindInvalidResponse
)

// String returns the kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "NETWORK"
	case KindCanceled:
		return "CANCELED"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindRateLimited:
		return "RATE_LIMITED"
	case KindServer:
		return "SERVER"
	case KindInvalidResponse:
		return "INVALID_RESPONSE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Kind      ErrorKind
	Status    int    // HTTP status, 0 when no response arrived
	Method    string // HTTP method
	Path      string // request path
	Message   string // server message or local description
	RequestID string
	Err       error // underlying cause, if any
}

func (e *Error) Error() string {
	var msg string
	if e.Status != 0 {
		msg = fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	} else {
		msg = fmt.Sprintf("%s %s", e.Method, e.Path)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil && e.Message == "" {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// kindForStatus maps a non-2xx status code to an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindServer
	}
}
