package memory

import (
	"errors"
	"fmt"
)

// ValidationError represents malformed or missing input. It is
// user-correctable and surfaced verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// NotFoundError means the id does not resolve to a live record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(resource, id string) NotFoundError {
	return NotFoundError{Resource: resource, ID: id}
}

// IsNotFoundError checks if error is NotFoundError
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// PermissionError means the actor lacks rights to perform the mutation.
type PermissionError struct {
	Message string
}

func (e PermissionError) Error() string { return e.Message }

// NewPermissionError constructs PermissionError
func NewPermissionError(message string) PermissionError {
	return PermissionError{Message: message}
}

// IsPermissionError checks if error is PermissionError
func IsPermissionError(err error) bool {
	var pe PermissionError
	return errors.As(err, &pe)
}

// ConflictError represents a unique constraint or duplicate resource error.
type ConflictError struct {
	Field   string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// NewConflictError constructs ConflictError
func NewConflictError(field, message string) ConflictError {
	return ConflictError{Field: field, Message: message}
}

// IsConflictError checks if error is ConflictError
func IsConflictError(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// UnavailableError means the backing store is unreachable. On the client it
// triggers exactly one fallback attempt; on the server it surfaces as 503.
type UnavailableError struct {
	Op  string
	Err error
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e UnavailableError) Unwrap() error { return e.Err }

// NewUnavailableError constructs UnavailableError
func NewUnavailableError(op string, err error) UnavailableError {
	return UnavailableError{Op: op, Err: err}
}

// IsUnavailableError checks if error is UnavailableError
func IsUnavailableError(err error) bool {
	var ue UnavailableError
	return errors.As(err, &ue)
}
