package task

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// AnalyzeTextPayload asks for vocabulary suggestions from a block of text.
type AnalyzeTextPayload struct {
	Text     string    `json:"text"`
	UserID   uuid.UUID `json:"user_id"`
	Language string    `json:"language,omitempty"`
}

// AnalyzeTextOutput lists lemmas from the text the user has not recorded.
type AnalyzeTextOutput struct {
	Status         string   `json:"status"`
	SuggestedWords []string `json:"suggested_words"`
}

// analyzeText extracts lemmas from text and drops the ones the user already
// has, compared case-insensitively. A missing user is retried since the
// request may have raced the user's creation.
func (h *handlers) analyzeText(ctx context.Context, payload []byte) (Result, error) {
	var p AnalyzeTextPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return Result{}, Terminal(fmt.Errorf("%w: text is empty", ErrInvalidPayload))
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With("user_id", p.UserID)

	if _, err := h.Repos.Users.GetByID(ctx, p.UserID); err != nil {
		return Result{}, Retryable(fmt.Errorf("loading user: %w", err))
	}

	extracted, err := h.Extractor.Extract(ctx, p.Text, p.Language)
	if err != nil {
		return Result{}, fmt.Errorf("extracting lemmas: %w", err)
	}

	known, err := h.Repos.Units.Lemmas(ctx, p.UserID)
	if err != nil {
		return Result{}, err
	}

	out := AnalyzeTextOutput{Status: "success", SuggestedWords: SuggestWords(extracted, known)}
	log.Info("text analyzed",
		"extracted_count", len(extracted),
		"suggested_count", len(out.SuggestedWords))
	return OK(out), nil
}

// SuggestWords returns the lowercased lemmas of extracted that are not in
// known, deduplicated and sorted.
func SuggestWords(extracted, known []string) []string {
	existing := make(map[string]struct{}, len(known))
	for _, lemma := range known {
		existing[strings.ToLower(domain.Canonicalize(lemma))] = struct{}{}
	}

	seen := make(map[string]struct{}, len(extracted))
	suggested := []string{}
	for _, lemma := range extracted {
		word := strings.ToLower(domain.Canonicalize(lemma))
		if word == "" {
			continue
		}
		if _, ok := existing[word]; ok {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		suggested = append(suggested, word)
	}
	sort.Strings(suggested)
	return suggested
}
