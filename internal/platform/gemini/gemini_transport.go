package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"google.golang.org/genai"
)

const roleUser = "user"

// contentGenerator is the part of *genai.Models the transport uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Transport implements generation.Transport using the Gemini API.
type Transport struct {
	models contentGenerator
	logger *slog.Logger
}

var _ generation.Transport = (*Transport)(nil)

// NewTransport creates a Gemini transport from the LLM configuration.
func NewTransport(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Transport, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}
	return newTransport(client.Models, logger), nil
}

func newTransport(models contentGenerator, logger *slog.Logger) *Transport {
	return &Transport{
		models: models,
		logger: logger.With(slog.String("component", "gemini_transport")),
	}
}

// ChatCompletion implements generation.Transport.
func (t *Transport) ChatCompletion(ctx context.Context, req generation.CompletionRequest) (string, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	cfg := &genai.GenerateContentConfig{
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	var (
		system   []string
		contents []*genai.Content
	)
	for _, msg := range req.Messages {
		if msg.Role == generation.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  roleUser,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}
	if len(contents) == 0 {
		// Gemini requires at least one content entry; promote the system
		// prompt when the call has no user message.
		if len(system) == 0 {
			return "", ErrNoUserContent
		}
		contents = []*genai.Content{{
			Role:  roleUser,
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}}
		cfg.SystemInstruction = nil
	}

	resp, err := t.models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		log.Warn("gemini call failed", slog.String("model", req.Model), slog.String("error", err.Error()))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrEmptyResponse)
	case len(resp.Candidates) == 0:
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrEmptyResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts", generation.ErrEmptyResponse)
	}

	log.Debug("gemini call completed",
		slog.String("model", req.Model),
		slog.String("finish_reason", string(resp.Candidates[0].FinishReason)))
	return text.String(), nil
}
