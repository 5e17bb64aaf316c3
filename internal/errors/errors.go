package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeStructural indicates a required section, header, or marker is
	// missing from the input file. Fatal for the current file.
	ErrTypeStructural ErrorType = "STRUCTURAL_PARSE"
	// ErrTypeTimestamp indicates a timestamp field does not match the
	// expected grammar. Fatal for the current file.
	ErrTypeTimestamp ErrorType = "TIMESTAMP_PARSE"
	// ErrTypeNoData indicates zero usable rows were parsed. Fatal.
	ErrTypeNoData ErrorType = "NO_DATA"
	// ErrTypeValidation indicates invalid configuration or settings.
	ErrTypeValidation ErrorType = "VALIDATION"
	// ErrTypeStorage indicates a filesystem read or write failure.
	ErrTypeStorage ErrorType = "FILESYSTEM_ERROR"
	// ErrTypeConfig indicates a configuration loading failure.
	ErrTypeConfig ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type, so callers
// can match against sentinel values regardless of message details.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Type == t.Type
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinel values for errors.Is matching.
var (
	ErrStructuralParse = &AppError{Type: ErrTypeStructural, Message: "required section missing"}
	ErrTimestampParse  = &AppError{Type: ErrTypeTimestamp, Message: "unrecognised timestamp format"}
	ErrNoData          = &AppError{Type: ErrTypeNoData, Message: "no data rows parsed"}
)

// Helper functions for common error types

// NewStructuralError creates an error for a missing section or marker.
// The section name identifies what could not be located in the input.
func NewStructuralError(section string) *AppError {
	return NewAppError(ErrTypeStructural, fmt.Sprintf("could not find %s", section), nil).
		WithContext("section", section)
}

// NewTimestampError creates an error for a malformed timestamp field,
// preserving the offending text for diagnostics.
func NewTimestampError(text string) *AppError {
	return NewAppError(ErrTypeTimestamp, fmt.Sprintf("unrecognised timestamp format: %q", text), nil).
		WithContext("text", text)
}

// NewNoDataError creates an error for a file that yielded zero usable rows.
func NewNoDataError(source string) *AppError {
	return NewAppError(ErrTypeNoData, "no data rows parsed from file", nil).
		WithContext("source", source)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
