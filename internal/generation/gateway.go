package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// Call describes one LLM round-trip. SystemPrompt and UserPrompt are
// text/template sources rendered with Params.
type Call struct {
	// Name identifies the call in logs.
	Name         string
	SystemPrompt string
	UserPrompt   string
	Params       map[string]any
	// Schema, when set, is sent to the transport as a guided-JSON constraint.
	Schema *Schema
	// Model overrides the gateway's default model.
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Validatable is implemented by response types that need checks beyond
// their struct tags.
type Validatable interface {
	Validate() error
}

// Gateway renders prompts, sends them through a Transport and returns or
// decodes the first completion.
type Gateway struct {
	transport    Transport
	defaultModel string
	validate     *validator.Validate
	logger       *slog.Logger
}

// NewGateway creates a gateway over transport.
func NewGateway(transport Transport, defaultModel string, logger *slog.Logger) (*Gateway, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport cannot be nil", ErrInvalidConfig)
	}
	if defaultModel == "" {
		return nil, fmt.Errorf("%w: default model cannot be empty", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		transport:    transport,
		defaultModel: defaultModel,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "llm_gateway")),
	}, nil
}

// Complete renders the call's prompts and returns the raw completion text.
// Transport errors are wrapped and returned without retrying.
func (g *Gateway) Complete(ctx context.Context, call Call) (string, error) {
	req, err := g.request(call)
	if err != nil {
		return "", err
	}
	return g.send(ctx, call, req)
}

// request renders call into the CompletionRequest sent to the transport.
func (g *Gateway) request(call Call) (CompletionRequest, error) {
	system, err := Render(call.Name+".system", call.SystemPrompt, call.Params)
	if err != nil {
		return CompletionRequest{}, err
	}
	user, err := Render(call.Name+".user", call.UserPrompt, call.Params)
	if err != nil {
		return CompletionRequest{}, err
	}

	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	if user != "" {
		messages = append(messages, Message{Role: RoleUser, Content: user})
	}
	if len(messages) == 0 {
		return CompletionRequest{}, fmt.Errorf("%w: call %q renders no messages", ErrInvalidConfig, call.Name)
	}

	model := call.Model
	if model == "" {
		model = g.defaultModel
	}
	return CompletionRequest{
		Messages:    messages,
		Model:       model,
		Temperature: call.Temperature,
		MaxTokens:   call.MaxTokens,
		Schema:      call.Schema,
	}, nil
}

func (g *Gateway) send(ctx context.Context, call Call, req CompletionRequest) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	start := time.Now()
	text, err := g.transport.ChatCompletion(ctx, req)
	if err != nil {
		log.Warn("llm call failed",
			slog.String("call", call.Name),
			slog.String("model", req.Model),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("llm call %s: %w", call.Name, err)
	}

	log.Debug("llm call completed",
		slog.String("call", call.Name),
		slog.String("model", req.Model),
		slog.Int("response_length", len(text)),
		slog.Duration("duration", time.Since(start)))
	return text, nil
}

// Decode runs Complete and decodes the text into out, which must be a
// pointer to a struct. Unknown fields, struct-tag violations and Validate
// failures are all reported as ErrInvalidResponse. A rejected completion is
// forgotten by transports that retain completions, so a retry asks again.
func (g *Gateway) Decode(ctx context.Context, call Call, out any) error {
	req, err := g.request(call)
	if err != nil {
		return err
	}
	text, err := g.send(ctx, call, req)
	if err != nil {
		return err
	}
	if err := g.decodeInto(text, out); err != nil {
		logger.FromContextOrDefault(ctx, g.logger).Warn("llm response rejected",
			slog.String("call", call.Name),
			slog.String("error", err.Error()))
		if f, ok := g.transport.(Forgetter); ok {
			f.Forget(req)
		}
		return err
	}
	return nil
}

func (g *Gateway) decodeInto(text string, out any) error {
	body := stripCodeFence(text)
	if body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, ErrEmptyResponse)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}

	if err := g.validate.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if v, ok := out.(Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models add even in JSON mode.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}
