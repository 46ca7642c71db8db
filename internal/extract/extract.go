package extract

import (
	"context"
	"log/slog"
	"unicode"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// Extractor finds candidate lemmas in text. language may be empty.
type Extractor interface {
	Extract(ctx context.Context, text, language string) ([]string, error)
}

// LemmaExtractor is the model call behind LLMExtractor.
// *generation.Linguist satisfies it.
type LemmaExtractor interface {
	ExtractLemmas(ctx context.Context, text string) ([]string, error)
}

// LLMExtractor asks the language model for lemmas.
type LLMExtractor struct {
	linguist LemmaExtractor
}

// NewLLMExtractor wraps linguist.
func NewLLMExtractor(linguist LemmaExtractor) *LLMExtractor {
	return &LLMExtractor{linguist: linguist}
}

// Extract implements Extractor.
func (e *LLMExtractor) Extract(ctx context.Context, text, _ string) ([]string, error) {
	return e.linguist.ExtractLemmas(ctx, text)
}

// Router sends Japanese text to a local extractor and everything else,
// including Japanese text the local extractor fails on, to the fallback.
type Router struct {
	japanese Extractor
	fallback Extractor
	logger   *slog.Logger
}

// NewRouter builds a Router. japanese may be nil, in which case every
// request goes to fallback.
func NewRouter(japanese, fallback Extractor, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		japanese: japanese,
		fallback: fallback,
		logger:   logger.With(slog.String("component", "extractor")),
	}
}

// Extract implements Extractor.
func (r *Router) Extract(ctx context.Context, text, language string) ([]string, error) {
	if r.japanese != nil && isJapanese(text, language) {
		lemmas, err := r.japanese.Extract(ctx, text, language)
		if err == nil && len(lemmas) > 0 {
			return lemmas, nil
		}
		logger.FromContextOrDefault(ctx, r.logger).Warn("local japanese extraction failed, using model",
			"error", err,
			"lemma_count", len(lemmas))
	}
	return r.fallback.Extract(ctx, text, language)
}

// isJapanese trusts an explicit language and otherwise looks for kana,
// which Chinese text does not contain.
func isJapanese(text, language string) bool {
	if language != "" {
		return domain.PrimarySubtag(language) == "ja"
	}
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}
