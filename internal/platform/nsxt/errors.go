package nsxt

import (
	"errors"
	"fmt"
)

// AuthError indicates a credential failure against the NSX-T manager.
type AuthError struct {
	Endpoint string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication to %s failed: %v", e.Endpoint, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// OperationError indicates a failed NSX-T operation.
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

// IsOperation reports whether err is a failed NSX-T operation.
func IsOperation(err error) bool {
	var target *OperationError
	return errors.As(err, &target)
}
