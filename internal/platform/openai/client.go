package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"resty.dev/v3"
)

// DefaultBaseURL is the Nebius AI Studio OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.studio.nebius.ai/v1/"

// SchemaMode selects how a response schema is sent to the endpoint.
type SchemaMode string

const (
	// SchemaModeGuidedJSON sends the schema in the guided_json body field
	// understood by vLLM-based providers.
	SchemaModeGuidedJSON SchemaMode = "guided_json"
	// SchemaModeResponseFormat sends the schema as a strict json_schema
	// response_format.
	SchemaModeResponseFormat SchemaMode = "response_format"
)

// ErrUnexpectedStatus wraps non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status from completion endpoint")

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	SchemaMode SchemaMode
}

// Client calls POST /chat/completions.
type Client struct {
	httpClient *resty.Client
	schemaMode SchemaMode
	logger     *slog.Logger
}

var _ generation.Transport = (*Client)(nil)

// NewClient creates a client for cfg.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SchemaMode == "" {
		cfg.SchemaMode = SchemaModeGuidedJSON
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	httpClient.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient: httpClient,
		schemaMode: cfg.SchemaMode,
		logger:     logger.With(slog.String("component", "openai_transport")),
	}, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

type chatCompletionRequest struct {
	Model          string               `json:"model"`
	Messages       []generation.Message `json:"messages"`
	Temperature    *float32             `json:"temperature,omitempty"`
	MaxTokens      int                  `json:"max_tokens,omitempty"`
	GuidedJSON     *generation.Schema   `json:"guided_json,omitempty"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict"`
	Schema *generation.Schema `json:"schema"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Index        int           `json:"index"`
	Message      choiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type choiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletion implements generation.Transport.
func (c *Client) ChatCompletion(ctx context.Context, req generation.CompletionRequest) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	body := chatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Schema != nil {
		switch c.schemaMode {
		case SchemaModeResponseFormat:
			body.ResponseFormat = &responseFormat{
				Type:       "json_schema",
				JSONSchema: &jsonSchema{Name: "response", Strict: true, Schema: req.Schema},
			}
		default:
			body.GuidedJSON = req.Schema
		}
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&chatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, response.StatusCode(), response.String())
	}

	result, ok := response.Result().(*chatCompletionResponse)
	if !ok || result == nil || len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrEmptyResponse)
	}
	if result.Choices[0].FinishReason == "content_filter" {
		return "", generation.ErrContentBlocked
	}

	log.Debug("chat completion received",
		slog.String("model", result.Model),
		slog.String("finish_reason", result.Choices[0].FinishReason),
		slog.Int("total_tokens", result.Usage.TotalTokens))

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", generation.ErrEmptyResponse)
	}
	return content, nil
}
