// Package domainerrors provides coded errors shared across services and
// transports. Handlers map codes to HTTP statuses in one place so stores and
// services never import net/http.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure independent of transport.
type Code string

const (
	// CodeUnknownPolicy marks a policy name missing from the registry.
	CodeUnknownPolicy Code = "unknown_policy"
	// CodePermissionDenied marks an authorization failure, e.g. agreeing on
	// behalf of another user without the required permission.
	CodePermissionDenied Code = "permission_denied"
	// CodeStorage marks a failure from the authoritative store or the cache
	// backend. Never retried locally.
	CodeStorage Code = "storage_error"
	// CodeBadRequest marks malformed caller input.
	CodeBadRequest Code = "bad_request"
	// CodeInternal marks everything that should not have happened.
	CodeInternal Code = "internal_error"
)

// Error carries a code alongside the message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause remains
// reachable through errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus translates a code to the status handlers should respond with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnknownPolicy, CodeBadRequest:
		return http.StatusBadRequest
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeStorage, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
