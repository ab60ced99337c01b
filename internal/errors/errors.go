// internal/errors/errors.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Code classifies request failures for transport mapping.
type Code string

const (
	CodeInvalidArgument  Code = "invalid_argument"
	CodeUnauthenticated  Code = "unauthenticated"
	CodePermissionDenied Code = "permission_denied"
	CodeNotFound         Code = "not_found"
	CodeInternal         Code = "internal"
)

// Error is a coded error with a caller-safe message.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// HTTPStatus maps the code to its HTTP status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument signals malformed or self-referential input.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Msg: msg}
}

// Unauthenticated signals a missing or invalid credential.
func Unauthenticated(msg string) *Error {
	return &Error{Code: CodeUnauthenticated, Msg: msg}
}

// PermissionDenied signals a requester outside the resource's membership.
func PermissionDenied(msg string) *Error {
	return &Error{Code: CodePermissionDenied, Msg: msg}
}

// NotFound signals an absent record.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Msg: msg}
}

// Internal wraps a store or infra failure with a generic caller message.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Msg: msg}
}

// Map converts repo/infra errors into coded errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")

	case errors.Is(err, context.DeadlineExceeded):
		return Internal("request timed out")

	case errors.Is(err, context.Canceled):
		return Internal("request was canceled")

	default:
		return Internal("internal error")
	}
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == CodeNotFound
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}
