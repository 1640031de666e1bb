// Package errors provides structured error types for molpack.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, the job runner and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes separate caller mistakes from engine-side conditions:
//   - UNKNOWN_CONSTRAINT_KIND, INVALID_CONSTRAINT_PARAMETERS: constraint building
//   - DUPLICATE_STRUCTURE_NAME, SESSION_BUSY: session registry misuse
//   - VALIDATION: options or templates that cannot be packed (see [Error.Field])
//   - PLACEMENT_FAILED: an engine could not place one structure type
//   - ENGINE_ERROR: the engine rejected a call or failed as a whole
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateStructure, "structure %q already registered", name)
//	if errors.Is(err, errors.ErrCodeDuplicateStructure) {
//	    // Handle registry conflict
//	}
//
//	// Validation failures name the offending option
//	err := errors.Validation("short_tol_dist", "must be smaller than tolerance %g", tol)
//	errors.FieldOf(err) // "short_tol_dist"
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Constraint catalog and builder errors
	ErrCodeUnknownConstraintKind  Code = "UNKNOWN_CONSTRAINT_KIND"
	ErrCodeInvalidConstraintParam Code = "INVALID_CONSTRAINT_PARAMETERS"

	// Session errors
	ErrCodeDuplicateStructure Code = "DUPLICATE_STRUCTURE_NAME"
	ErrCodeValidation         Code = "VALIDATION"
	ErrCodeSessionBusy        Code = "SESSION_BUSY"

	// Engine errors
	ErrCodePlacementFailed Code = "PLACEMENT_FAILED"
	ErrCodeEngine          Code = "ENGINE_ERROR"

	// Input errors (job files, CLI arguments)
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Field   string // Offending option or parameter (optional)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Validation creates a VALIDATION error for the named field.
func Validation(field, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FieldOf returns the Field of the first *Error in the chain.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Field != "" {
			return e.Field + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
