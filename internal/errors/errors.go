package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileNotFound ErrorType = "FILE_NOT_FOUND"
	ErrTypeSchema       ErrorType = "SCHEMA"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeEmptyInput   ErrorType = "EMPTY_INPUT"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// PipelineError represents a pipeline-specific error
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with PipelineError
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error
func New(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the pipeline error type of err, or the empty string
// when err does not wrap a PipelineError.
func TypeOf(err error) ErrorType {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ""
}

// IsType reports whether err wraps a PipelineError of the given type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// IsFatal reports whether err must abort the run. Row-level validation
// failures are recoverable: the offending row is excluded and counted
// while processing continues. Every other pipeline error, and any error
// that is not a PipelineError at all, stops the stage.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type != ErrTypeValidation
	}
	return true
}

// Helper functions for common error types

// NewFileNotFoundError creates an error for a missing input file
func NewFileNotFoundError(path string, cause error) *PipelineError {
	return New(ErrTypeFileNotFound, fmt.Sprintf("input file %s not found", path), cause).
		WithContext("path", path)
}

// NewSchemaError creates an error for a header that cannot be mapped
// to the expected columns
func NewSchemaError(message string, cause error) *PipelineError {
	return New(ErrTypeSchema, message, cause)
}

// NewValidationError creates a recoverable row-level validation error
func NewValidationError(message string) *PipelineError {
	return New(ErrTypeValidation, message, nil)
}

// NewRowValidationError creates a validation error annotated with the
// 1-based input line it came from
func NewRowValidationError(line int, message string) *PipelineError {
	return NewValidationError(message).WithContext("line", line)
}

// NewEmptyInputError creates an error for a table with no data rows
func NewEmptyInputError(message string) *PipelineError {
	return New(ErrTypeEmptyInput, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *PipelineError {
	return New(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *PipelineError {
	return New(ErrTypeConfig, message, cause)
}
