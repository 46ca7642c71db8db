package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PhrasePayload identifies one phrase.
type PhrasePayload struct {
	PhraseID uuid.UUID `json:"phrase_id"`
}

// enrichPhrase validates a phrase and backfills its CEFR level and category.
// Stored values are compared with the estimates, never overwritten by them.
// An analysis that cannot be obtained is a final FAILED judgment; only
// storage errors are retried.
func (h *handlers) enrichPhrase(ctx context.Context, payload []byte) (Result, error) {
	var p PhrasePayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With("phrase_id", p.PhraseID)

	phrase, err := h.Repos.Phrases.GetByID(ctx, p.PhraseID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("phrase not found for enrichment")
			return NotFound("phrase not found"), nil
		}
		return Result{}, h.failPhrase(ctx, p.PhraseID, err)
	}

	analysis, err := h.Linguist.AnalyzePhrase(ctx, phrase)
	if err == nil && analysis == nil {
		err = generation.ErrEmptyResponse
	}
	if err != nil {
		note := fmt.Sprintf("Analysis failed: LLM did not return a valid response (%v)", err)
		log.Warn("phrase analysis failed", "error", err)
		if err := h.Repos.Phrases.UpdateValidation(ctx, phrase.ID, domain.ValidationFailed, note); err != nil {
			return Result{}, Retryable(err)
		}
		return Result{Outcome: OutcomeFailed, Detail: note}, nil
	}

	applyPhraseAnalysis(phrase, analysis)
	if err := h.Repos.Phrases.UpdateEnrichment(ctx, phrase); err != nil {
		return Result{}, h.failPhrase(ctx, phrase.ID, err)
	}

	log.Info("phrase enriched", "validation_status", string(phrase.Validation))
	return Result{Outcome: outcomeFor(phrase.Validation), Detail: phrase.ValidationNotes}, nil
}

// applyPhraseAnalysis folds an analysis into phrase: empty CEFR level and
// category are backfilled, present ones compared.
func applyPhraseAnalysis(phrase *domain.Phrase, a *generation.PhraseAnalysisResponse) {
	mismatch := !*a.IsValid

	var notes []string
	if a.Justification != nil && strings.TrimSpace(*a.Justification) != "" {
		notes = append(notes, strings.TrimSpace(*a.Justification))
	}

	if !domain.SamePrimaryLanguage(phrase.Language, a.LanguageCode) {
		mismatch = true
		note := fmt.Sprintf("Language mismatch: stored %s, detected %s", phrase.Language, a.LanguageCode)
		notes = append([]string{note}, notes...)
	}

	if phrase.CEFR == nil {
		level := a.CEFRLevel
		phrase.CEFR = &level
	} else if *phrase.CEFR != a.CEFRLevel {
		mismatch = true
		notes = append(notes, fmt.Sprintf("CEFR level mismatch: stored %s, estimated %s", *phrase.CEFR, a.CEFRLevel))
	}

	if phrase.Category == nil {
		category := a.Category
		phrase.Category = &category
	} else if *phrase.Category != a.Category {
		mismatch = true
		notes = append(notes, fmt.Sprintf("Category mismatch: stored %s, estimated %s", *phrase.Category, a.Category))
	}

	phrase.Validation = domain.ValidationValid
	if mismatch {
		phrase.Validation = domain.ValidationMismatch
	}
	phrase.ValidationNotes = strings.Join(notes, " | ")
}

// failPhrase records an unexpected storage failure on the phrase and
// returns an error the runner will retry.
func (h *handlers) failPhrase(ctx context.Context, id uuid.UUID, cause error) error {
	note := fmt.Sprintf("Enrichment failed: %v", cause)
	if err := h.Repos.Phrases.UpdateValidation(ctx, id, domain.ValidationFailed, note); err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Error("failed to record phrase failure",
			"phrase_id", id,
			"error", err)
	}
	return Retryable(cause)
}
