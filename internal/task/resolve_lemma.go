package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// ResolveLemmaPayload asks which readings of a lemma exist in a language.
type ResolveLemmaPayload struct {
	Lemma           string                 `json:"lemma"`
	Language        string                 `json:"language"`
	UserID          uuid.UUID              `json:"user_id"`
	LexicalCategory domain.LexicalCategory `json:"lexical_category,omitempty"`
}

// Variant is one reading of a lemma, annotated with whether the user
// already has a unit for its part of speech.
type Variant struct {
	LexicalCategory domain.LexicalCategory `json:"lexical_category"`
	PartOfSpeech    domain.PartOfSpeech    `json:"part_of_speech"`
	Pronunciation   string                 `json:"pronunciation"`
	Exists          bool                   `json:"exists"`
}

// resolveLemma never writes to the database. Its Result carries the
// variant list, which is empty when the LLM knows no reading of the lemma.
func (h *handlers) resolveLemma(ctx context.Context, payload []byte) (Result, error) {
	var p ResolveLemmaPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	log := logger.FromContextOrDefault(ctx, h.logger)

	lemma := domain.Canonicalize(p.Lemma)
	category := p.LexicalCategory
	if category == "" {
		category = domain.CategorySingleWord
	}

	// An unsaved unit validates the request the same way a stored one would.
	probe, err := domain.NewLexicalUnit(domain.UnitKey{
		UserID:          p.UserID,
		Lemma:           lemma,
		Language:        p.Language,
		LexicalCategory: category,
	}, "")
	if err != nil {
		return Result{}, Terminal(err)
	}

	if _, err := h.Repos.Users.GetByID(ctx, p.UserID); err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("user not found for lemma resolution", "user_id", p.UserID)
			return NotFound("user not found"), nil
		}
		return Result{}, err
	}

	details, err := h.Linguist.LemmaDetails(ctx, probe.Lemma, probe.Language)
	if err != nil {
		return Result{}, err
	}

	variants := []Variant{}
	check := checkVariants(log, details, "")
	if len(check.variants) == 0 {
		return OK(variants), nil
	}

	existing, err := h.Repos.Units.PartsOfSpeech(ctx, p.UserID, probe.Lemma, probe.Language)
	if err != nil {
		return Result{}, err
	}
	present := make(map[domain.PartOfSpeech]bool, len(existing))
	for _, pos := range existing {
		present[pos] = true
	}

	for _, d := range check.variants {
		variants = append(variants, Variant{
			LexicalCategory: category,
			PartOfSpeech:    d.PartOfSpeech,
			Pronunciation:   d.IPA(),
			Exists:          present[d.PartOfSpeech],
		})
	}
	log.Info("lemma resolved", "lemma", probe.Lemma, "variant_count", len(variants))
	return OK(variants), nil
}
