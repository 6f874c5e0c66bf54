// Package errors defines the coded errors returned by exhibitnet packages.
//
// Every failure that reaches a caller carries a [Code]. The CLI prints the
// message, the HTTP API maps the code to a status and the explorer shows
// it inline.
//
// Codes fall into three groups:
//   - INVALID_*: the caller asked for something malformed (bad year, mode,
//     format, source or config); fixable by changing the request
//   - DATA_LOAD_FAILURE: a membership table could not be fetched or parsed;
//     no layout is attempted
//   - NOT_FOUND, UNSUPPORTED, INTERNAL_ERROR: everything else
//
// An empty year selection is not an error: the layout carries a no-data
// signal instead. [ErrCodeEmptySelection] exists for hosts that must turn
// that signal into a status.
//
//	err := errors.Wrap(errors.ErrCodeDataLoad, cause, "read %s", uri)
//	if errors.Is(err, errors.ErrCodeDataLoad) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidYear   Code = "INVALID_YEAR"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"

	ErrCodeDataLoad       Code = "DATA_LOAD_FAILURE"
	ErrCodeEmptySelection Code = "EMPTY_SELECTION"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message without the code prefix or cause, or
// err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
