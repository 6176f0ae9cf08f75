// Package errors provides the structured error type shared by every
// modshelf package. Errors carry a stable code so callers (and tests) can
// branch on the failure category without matching message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// ErrNotFound: an expected root or entry is absent. Callers show an
	// empty state.
	ErrNotFound ErrorCode = "NOT_FOUND"

	// ErrIOFailure: a move, copy or write failed. Any partial operation has
	// already been rolled back when this is returned.
	ErrIOFailure ErrorCode = "IO_FAILURE"

	// ErrCorrupt: a persisted file could not be parsed.
	ErrCorrupt ErrorCode = "CORRUPT"

	// ErrConflict: a destination file already exists. Nothing was changed.
	ErrConflict ErrorCode = "CONFLICT"

	// ErrInvalidIdentity: duplicate or malformed entry identity.
	ErrInvalidIdentity ErrorCode = "INVALID_IDENTITY"

	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrTooLarge: a file exceeds the undo snapshot limit.
	ErrTooLarge ErrorCode = "TOO_LARGE"

	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
)

// ShelfError represents a structured error with code and details
type ShelfError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ShelfError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ShelfError) Unwrap() error {
	return e.Wrapped
}

// Is matches any other ShelfError carrying the same code.
func (e *ShelfError) Is(target error) bool {
	var targetErr *ShelfError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ShelfError with the given code and message
func New(code ErrorCode, message string) *ShelfError {
	return &ShelfError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ShelfError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ShelfError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *ShelfError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ShelfError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *ShelfError) WithDetail(key string, value interface{}) *ShelfError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	var shelfErr *ShelfError
	for err != nil {
		if !errors.As(err, &shelfErr) {
			return false
		}
		if shelfErr.Code == code {
			return true
		}
		err = shelfErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	var shelfErr *ShelfError
	if errors.As(err, &shelfErr) {
		return shelfErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the outermost ShelfError, or nil
func GetErrorDetails(err error) map[string]interface{} {
	var shelfErr *ShelfError
	if errors.As(err, &shelfErr) {
		return shelfErr.Details
	}
	return nil
}
