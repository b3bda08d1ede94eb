package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindConfiguration      Kind = "configuration_error"
	KindValidation         Kind = "validation_error"
	KindAuth               Kind = "auth_error"
	KindNotFound           Kind = "not_found"
	KindInsufficientCredit Kind = "insufficient_credit"
	KindProvider           Kind = "provider_error"
	KindTimeout            Kind = "timeout_error"
	KindStorage            Kind = "storage_error"
	KindInternal           Kind = "internal_error"
)

// Error is a classified failure. Message is safe to show to callers; Detail
// carries the raw upstream payload when one exists.
type Error struct {
	Kind           Kind
	Message        string
	Detail         string
	Err            error
	StatusOverride int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int {
	if e.StatusOverride != 0 {
		return e.StatusOverride
	}
	switch e.Kind {
	case KindValidation, KindInsufficientCredit:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Auth(message string, err error) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InsufficientCredit(balance, cost int) *Error {
	return &Error{
		Kind:    KindInsufficientCredit,
		Message: fmt.Sprintf("insufficient credit: balance %d, required %d", balance, cost),
	}
}

func Provider(message, detail string) *Error {
	return &Error{Kind: KindProvider, Message: message, Detail: detail}
}

func Timeout(message string) *Error {
	return &Error{Kind: KindTimeout, Message: message}
}

func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf maps any error to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.Status()
	}
	return http.StatusInternalServerError
}
