package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a runlog error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// RunlogError represents a structured error with code, status, and details.
// Cause carries the underlying error (usually a filesystem error) so callers
// can still match it with errors.Is / errors.As.
type RunlogError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *RunlogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *RunlogError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RunlogError {
	return &RunlogError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMissingField creates a 400 error for a required field left empty.
func NewMissingField(field string) *RunlogError {
	return &RunlogError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("%s is required", field),
		Details: map[string]any{"field": field},
	}
}

// NewFileNotFound creates a 404 error for a missing file path.
func NewFileNotFound(path string) *RunlogError {
	return &RunlogError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates an error for an operation stopped by context cancellation.
func NewCancelled(operation string) *RunlogError {
	return &RunlogError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates a 500 error wrapping an unexpected error.
func NewInternal(err error) *RunlogError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RunlogError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Cause:   err,
	}
}

// Is checks if err (or anything it wraps) is a RunlogError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *RunlogError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}
