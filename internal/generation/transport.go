package generation

import "context"

// Message roles understood by every transport.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single chat completion call. Schema, when set,
// constrains the model to emit JSON matching it.
type CompletionRequest struct {
	Messages    []Message
	Model       string
	Temperature *float32
	MaxTokens   int
	Schema      *Schema
}

// Transport sends one completion request to an LLM provider and returns the
// text of the first choice. It does not retry.
type Transport interface {
	ChatCompletion(ctx context.Context, req CompletionRequest) (string, error)
}

// Forgetter is implemented by transports that retain completions. Forget
// drops the completion kept for req so the next identical request reaches
// the provider again.
type Forgetter interface {
	Forget(req CompletionRequest)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req CompletionRequest) (string, error)

// ChatCompletion calls f(ctx, req).
func (f TransportFunc) ChatCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// Temperature returns a pointer to t for use in requests.
func Temperature(t float32) *float32 {
	return &t
}
