package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/generation"
)

// validateConfig checks the settings the Gemini transport needs.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "missing Gemini API key")
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.DefaultModel == "" {
		logger.ErrorContext(ctx, "missing default model")
		return fmt.Errorf("%w: default model cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}
