package store

import (
	"errors"
	"fmt"
)

// Common store errors
var (
	// ErrNotFound indicates that the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates that a unique key is already taken.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates that the entity failed validation or
	// referenced a row that does not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed indicates that an update affected no rows or failed.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed indicates that a delete could not be performed.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed indicates a transaction could not be completed.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific errors
var (
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrUnitNotFound        = fmt.Errorf("%w: lexical unit", ErrNotFound)
	ErrTranslationNotFound = fmt.Errorf("%w: translation", ErrNotFound)
	ErrPhraseNotFound      = fmt.Errorf("%w: phrase", ErrNotFound)
	ErrTaskNotFound        = fmt.Errorf("%w: task", ErrNotFound)

	ErrEmailExists       = fmt.Errorf("%w: email", ErrDuplicate)
	ErrUnitExists        = fmt.Errorf("%w: lexical unit", ErrDuplicate)
	ErrTranslationExists = fmt.Errorf("%w: translation", ErrDuplicate)
	ErrPhraseExists      = fmt.Errorf("%w: phrase", ErrDuplicate)
)

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any uniqueness conflict.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError provides structured context for a failed store operation.
type StoreError struct {
	Entity    string // The entity type (e.g., "lexical_unit", "phrase")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
