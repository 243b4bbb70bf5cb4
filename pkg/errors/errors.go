// Package errors provides typed errors for obfview
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrNoSourceDocument indicates no source document could be resolved
	ErrNoSourceDocument
	// ErrTransform indicates the obfuscation transform failed
	ErrTransform
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrDisposed indicates use of an object after Dispose
	ErrDisposed
)

// ObfError is the base error type for all obfview errors
type ObfError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *ObfError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *ObfError) Unwrap() error {
	return e.Cause
}

// New creates a new ObfError
func New(errType ErrorType, message string, cause error) *ObfError {
	return &ObfError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *ObfError) WithContext(key string, value interface{}) *ObfError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var obfErr *ObfError
	if err == nil {
		return false
	}
	if errors.As(err, &obfErr) {
		return obfErr.Type == errType
	}
	return false
}

// TypeOf returns the type of err and whether err is an ObfError at all.
func TypeOf(err error) (ErrorType, bool) {
	var obfErr *ObfError
	if errors.As(err, &obfErr) {
		return obfErr.Type, true
	}
	return 0, false
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrNoSourceDocument:
		return "NO_SOURCE_DOCUMENT"
	case ErrTransform:
		return "TRANSFORM"
	case ErrValidation:
		return "VALIDATION"
	case ErrDisposed:
		return "DISPOSED"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *ObfError {
	return New(ErrConfig, message, cause)
}

// NoSourceDocumentError creates an error for a missing source document
func NoSourceDocumentError(message string) *ObfError {
	return New(ErrNoSourceDocument, message, nil)
}

// TransformError creates a transform failure error
func TransformError(message string, cause error) *ObfError {
	return New(ErrTransform, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *ObfError {
	return New(ErrValidation, message, cause)
}

// DisposedError creates an error for use after dispose
func DisposedError(what string) *ObfError {
	return New(ErrDisposed, what+" is disposed", nil)
}
