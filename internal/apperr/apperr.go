// Package apperr holds the error taxonomy shared by the job orchestrator,
// the backend client and the card builder.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindRateLimit
	KindJobFailed
	KindNetwork
	KindNotReady
	KindIconLookup
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindJobFailed:
		return "job_failed"
	case KindNetwork:
		return "network"
	case KindNotReady:
		return "not_ready"
	case KindIconLookup:
		return "icon_lookup"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrRateLimit  = &Error{Kind: KindRateLimit}
	ErrJobFailed  = &Error{Kind: KindJobFailed}
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrNotReady   = &Error{Kind: KindNotReady}
	ErrIconLookup = &Error{Kind: KindIconLookup}
	ErrTimeout    = &Error{Kind: KindTimeout}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports KindUnknown for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FromStatus maps a non-2xx backend response onto the taxonomy.
func FromStatus(code int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("API error: %d", code)
	}
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return New(KindValidation, msg)
	case http.StatusNotFound:
		return New(KindNotFound, msg)
	case http.StatusTooManyRequests:
		return New(KindRateLimit, msg)
	default:
		return New(KindNetwork, msg)
	}
}
