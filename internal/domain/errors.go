// Package domain defines core types, interfaces, and errors for the
// clinical data governance platform.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input or a malformed definition,
// e.g. a contract whose primary key references a missing column.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnknownDomainError indicates an unrecognized clinical domain key.
// This is a caller programming error, not a data-quality problem.
type UnknownDomainError struct {
	Message string
}

func (e *UnknownDomainError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnknownDomain creates an UnknownDomainError with a formatted message.
func ErrUnknownDomain(format string, args ...interface{}) *UnknownDomainError {
	return &UnknownDomainError{Message: fmt.Sprintf(format, args...)}
}
