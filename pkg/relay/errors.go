package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a relay failure. Every error returned by Relay.Run is a
// *Error carrying exactly one kind.
type Kind int

const (
	// KindUnclassified is any failure not covered by a more specific kind.
	KindUnclassified Kind = iota

	// KindConfiguration means the relay was missing its endpoint or
	// credential. Detected before any network call.
	KindConfiguration

	// KindTimeout means a connect, write, or read deadline was exceeded.
	KindTimeout

	// KindConnection means the toolset server could not be reached.
	KindConnection

	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus

	// KindCanceled means the caller canceled the request via its context.
	KindCanceled
)

// String returns the kind's stable name.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindHTTPStatus:
		return "http_status"
	case KindCanceled:
		return "canceled"
	default:
		return "unclassified"
	}
}

// Error is the relay's terminal failure value.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Endpoint is the configured toolset server URL, set for connection
	// failures so the unreachable host is identified.
	Endpoint string

	// Status is the HTTP status code, set only for KindHTTPStatus.
	Status int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfiguration:
		return fmt.Sprintf("relay not configured: %v", e.Err)
	case KindTimeout:
		return fmt.Sprintf("request timed out: %v", e.Err)
	case KindConnection:
		return fmt.Sprintf("could not connect to %s: %v", e.Endpoint, e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("toolset server returned HTTP %d", e.Status)
	case KindCanceled:
		return "request canceled"
	default:
		return fmt.Sprintf("relay error: %v", e.Err)
	}
}

// Unwrap exposes the underlying cause so errors.Is(err, context.Canceled)
// and friends keep working through the classification.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or KindUnclassified if err is not
// a relay error.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindUnclassified
}

// configError reports a pre-flight configuration failure.
func configError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Err: errors.New(msg)}
}

// classify converts a transport or stream failure into a *Error. Errors that
// are already classified pass through untouched.
func classify(err error, endpoint string) *Error {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}

	var operr *net.OpError
	if errors.As(err, &operr) && operr.Op == "dial" {
		return &Error{Kind: KindConnection, Endpoint: endpoint, Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return &Error{Kind: KindConnection, Endpoint: endpoint, Err: err}
	}

	return &Error{Kind: KindUnclassified, Err: err}
}
