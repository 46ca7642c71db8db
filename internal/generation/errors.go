package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrInvalidResponse is returned when the LLM response cannot be parsed or
	// does not satisfy its schema
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyResponse is returned when the LLM produced no text at all
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the gateway or a transport is misconfigured
	ErrInvalidConfig = errors.New("invalid generation configuration")

	// ErrMissingParameter is returned when a prompt references a parameter
	// that was not supplied
	ErrMissingParameter = errors.New("missing prompt parameter")
)
