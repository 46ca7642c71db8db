// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidLanguage is returned when a language code is not a BCP-47 tag.
	ErrInvalidLanguage = errors.New("invalid language code")

	// ErrInvalidEnumValue is returned when a value is outside its enumeration.
	ErrInvalidEnumValue = errors.New("invalid enum value")
)
