package task

import (
	"context"
	"errors"
	"fmt"
)

// Common task errors
var (
	ErrUnknownTaskType   = errors.New("unknown task type")
	ErrDuplicateTaskType = errors.New("task type already registered")
	ErrInvalidPayload    = errors.New("invalid task payload")
)

// TerminalError marks a failure that must not be retried.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal: %v", e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// RetryableError marks a failure expected to clear on a later attempt.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Terminal wraps err so the runner fails the task without retrying.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &TerminalError{Err: err}
}

// Retryable wraps err so the runner retries it under the task's policy.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether the runner should try again after err.
// Anything not explicitly terminal is treated as transient, except a
// cancelled context.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var terminal *TerminalError
	if errors.As(err, &terminal) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
