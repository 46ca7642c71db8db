package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNoUserContent is returned when a request carries no user message.
	ErrNoUserContent = errors.New("request has no user content")
)
