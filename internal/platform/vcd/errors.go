package vcd

import (
	"errors"
	"fmt"
)

// AuthError indicates a credential or session failure against the
// Cloud Director API.
type AuthError struct {
	Endpoint string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication to %s failed: %v", e.Endpoint, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError indicates that a named entity does not exist.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ValidationError indicates that an entity exists but fails a
// precondition gate (wrong backing technology, disabled state, media
// attached to a VM).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// OperationError indicates that a remote mutation failed.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsNotFound reports whether err indicates a missing entity.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a failed precondition gate.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsOperation reports whether err is a failed remote mutation.
func IsOperation(err error) bool {
	var target *OperationError
	return errors.As(err, &target)
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
