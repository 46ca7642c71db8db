package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// TranslateUnitPayload asks for translations of a user's unit into one
// target language.
type TranslateUnitPayload struct {
	UnitID         uuid.UUID `json:"unit_id"`
	UserID         uuid.UUID `json:"user_id"`
	TargetLanguage string    `json:"target_language"`
}

// TranslateUnitOutput reports the units and edges a translation run
// touched.
type TranslateUnitOutput struct {
	TranslatedLemma string      `json:"translated_lemma"`
	Targets         []uuid.UUID `json:"targets"`
	Edges           []uuid.UUID `json:"edges"`
}

// TranslationPayload identifies one translation edge.
type TranslationPayload struct {
	TranslationID uuid.UUID `json:"translation_id"`
}

// translateUnit creates target units owned by the source's owner and links
// them with AI translation edges. Each (target, edge) pair is written in
// its own transaction. Once it commits, a new target is queued for
// validation and a new edge for verification.
func (h *handlers) translateUnit(ctx context.Context, payload []byte) (Result, error) {
	var p TranslateUnitPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	if err := domain.ValidateLanguageCode(p.TargetLanguage); err != nil {
		return Result{}, Terminal(fmt.Errorf("%w: %v", ErrInvalidPayload, err))
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With(
		"unit_id", p.UnitID,
		"target_language", p.TargetLanguage)

	source, err := h.Repos.Units.GetForUser(ctx, p.UnitID, p.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("source unit not found for translation", "user_id", p.UserID)
			return NotFound("source unit not found"), nil
		}
		return Result{}, err
	}
	if source.IsStub() {
		return Skipped("source unit has no part of speech"), nil
	}
	if domain.SamePrimaryLanguage(source.Language, p.TargetLanguage) {
		return Skipped("target language is the language of the source unit"), nil
	}

	resp, err := h.Linguist.Translate(ctx, source, p.TargetLanguage)
	if err != nil {
		return Result{}, fmt.Errorf("translating %q: %w", source.Lemma, err)
	}
	if resp.TranslatedLemma == "" || len(resp.TranslationDetails) == 0 {
		log.Warn("insufficient translation data from LLM", "lemma", source.Lemma)
		return Skipped("LLM returned no translation"), nil
	}

	out := TranslateUnitOutput{
		TranslatedLemma: domain.Canonicalize(resp.TranslatedLemma),
		Targets:         []uuid.UUID{},
		Edges:           []uuid.UUID{},
	}
	var newTargets, newEdges []uuid.UUID
	followUp := func() {
		for _, id := range newTargets {
			h.schedule(ctx, TypeValidateUnit, UnitPayload{UnitID: id})
		}
		for _, id := range newEdges {
			h.schedule(ctx, TypeVerifyTranslation, TranslationPayload{TranslationID: id})
		}
	}

	for _, detail := range resp.TranslationDetails {
		if !detail.PartOfSpeech.IsValid() {
			log.Warn("skipping translation variant with invalid part of speech",
				"part_of_speech", string(detail.PartOfSpeech))
			continue
		}
		key := domain.UnitKey{
			UserID:          source.UserID,
			Lemma:           resp.TranslatedLemma,
			Language:        p.TargetLanguage,
			PartOfSpeech:    detail.PartOfSpeech,
			LexicalCategory: source.LexicalCategory,
		}

		var (
			target                     *domain.LexicalUnit
			edge                       *domain.LexicalUnitTranslation
			targetCreated, edgeCreated bool
		)
		err := h.UnitOfWork.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
			var err error
			target, targetCreated, err = repos.Units.GetOrCreate(ctx, key, detail.IPA())
			if err != nil {
				return fmt.Errorf("target unit: %w", err)
			}
			edge, edgeCreated, err = repos.Translations.GetOrCreate(ctx, source.ID, target.ID, domain.TranslationAI)
			if err != nil {
				return fmt.Errorf("translation edge: %w", err)
			}
			return nil
		})
		if err != nil {
			followUp()
			return Result{}, err
		}

		out.Targets = append(out.Targets, target.ID)
		out.Edges = append(out.Edges, edge.ID)
		if targetCreated {
			newTargets = append(newTargets, target.ID)
		}
		if edgeCreated {
			newEdges = append(newEdges, edge.ID)
		}
		log.Info("linked translation", "part_of_speech", string(detail.PartOfSpeech))
	}

	followUp()
	return OK(out), nil
}
