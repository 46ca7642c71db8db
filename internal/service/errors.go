package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidInput marks a request rejected before anything was written.
	// The ServiceError carrying it holds a message safe to show the client.
	ErrInvalidInput = errors.New("invalid input")

	// ErrScheduleFailed indicates an explicitly requested task could not be
	// queued.
	ErrScheduleFailed = errors.New("failed to queue task")
)

// ServiceError is the error type returned by service operations.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// invalidInput rejects a request, using cause's text as the client message.
func invalidInput(operation string, cause error) error {
	return &ServiceError{
		Operation: operation,
		Message:   cause.Error(),
		Err:       fmt.Errorf("%w: %w", ErrInvalidInput, cause),
	}
}

// UserMessage returns the message of the outermost ServiceError in err's
// chain. Messages never carry wrapped error text.
func UserMessage(err error) (string, bool) {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.Message == "" {
		return "", false
	}
	return svcErr.Message, true
}
