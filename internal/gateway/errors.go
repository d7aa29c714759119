package gateway

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindUnauthorized            Kind = "UNAUTHORIZED"
	KindForbidden               Kind = "FORBIDDEN"
	KindNotFound                Kind = "NOT_FOUND"
	KindInvalidRequest          Kind = "INVALID_REQUEST"
	KindUpstreamRateLimited     Kind = "UPSTREAM_RATE_LIMITED"
	KindUpstreamPaymentRequired Kind = "UPSTREAM_PAYMENT_REQUIRED"
	KindUpstreamError           Kind = "UPSTREAM_ERROR"
	KindResponseParseError      Kind = "RESPONSE_PARSE_ERROR"
	KindConfigurationError      Kind = "CONFIGURATION_ERROR"
	KindPersistenceError        Kind = "PERSISTENCE_ERROR"
)

// Error is a classified failure. Message is safe to show to end users; Err and
// Stack are for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

func newError(kind Kind, message string, err error) *Error {
	var stack []byte
	var stackErr *goerrors.Error
	switch {
	case errors.As(err, &stackErr):
		stack = stackErr.Stack()
	case err != nil:
		stack = goerrors.Wrap(err, 2).Stack()
	default:
		stack = goerrors.New(message).Stack()
	}

	return &Error{Kind: kind, Message: message, Err: err, Stack: stack}
}

func Unauthorized(err error) *Error {
	return newError(KindUnauthorized, "Unauthorized", err)
}

func Forbidden(err error) *Error {
	return newError(KindForbidden, "You do not have access to this job", err)
}

func NotFound(err error) *Error {
	return newError(KindNotFound, "Job not found", err)
}

func InvalidRequest(message string) *Error {
	return newError(KindInvalidRequest, message, nil)
}

func Persistence(err error) *Error {
	return newError(KindPersistenceError, "Failed to save candidate", err)
}

// KindOf returns the kind carried by err, or KindUpstreamError for
// unclassified errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUpstreamError
}

func StatusCode(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamPaymentRequired:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var ge *Error
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return "Unknown error occurred"
}
