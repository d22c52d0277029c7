package whatpulse

import (
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	// KindAPI is an error reported inside a 200 response body.
	KindAPI Kind = iota + 1
	// KindAccessDenied is HTTP 401: the caller's address is not allowed.
	KindAccessDenied
	// KindNotFound is HTTP 404: bad URL or unsupported client version.
	KindNotFound
	// KindMethodNotAllowed is HTTP 405.
	KindMethodNotAllowed
	// KindUnknownStatus is any other non-200 status.
	KindUnknownStatus
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindAccessDenied:
		return "access denied"
	case KindNotFound:
		return "not found"
	case KindMethodNotAllowed:
		return "method not allowed"
	case KindUnknownStatus:
		return "unknown status"
	default:
		return "unknown"
	}
}

const (
	msgAccessDenied     = "connecting IP address not allowed in the client settings"
	msgNotFound         = "invalid URL, this may be caused by an unsupported client version"
	msgMethodNotAllowed = "invalid HTTP method, this should never happen"
)

// Error is returned for every failure reported by the WhatPulse client,
// whether signalled by HTTP status or by an error field in the body.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrAPI              = &Error{Kind: KindAPI, StatusCode: http.StatusOK}
	ErrAccessDenied     = &Error{Kind: KindAccessDenied, StatusCode: http.StatusUnauthorized, Message: msgAccessDenied}
	ErrNotFound         = &Error{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: msgNotFound}
	ErrMethodNotAllowed = &Error{Kind: KindMethodNotAllowed, StatusCode: http.StatusMethodNotAllowed, Message: msgMethodNotAllowed}
	ErrUnknownStatus    = &Error{Kind: KindUnknownStatus}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		return "whatpulse api error: " + e.Message
	case KindUnknownStatus:
		return fmt.Sprintf("unknown HTTP response code received: %d", e.StatusCode)
	default:
		return e.Message
	}
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newAPIError(msg string) *Error {
	return &Error{Kind: KindAPI, StatusCode: http.StatusOK, Message: msg}
}

// statusError maps a response status to an *Error; 200 yields nil.
func statusError(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return &Error{Kind: KindAccessDenied, StatusCode: code, Message: msgAccessDenied}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: code, Message: msgNotFound}
	case http.StatusMethodNotAllowed:
		return &Error{Kind: KindMethodNotAllowed, StatusCode: code, Message: msgMethodNotAllowed}
	default:
		return &Error{Kind: KindUnknownStatus, StatusCode: code}
	}
}
