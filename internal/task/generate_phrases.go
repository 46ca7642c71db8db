package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// GeneratePhrasesPayload asks for example phrases using a unit, translated
// into TargetLanguage.
type GeneratePhrasesPayload struct {
	UnitID         uuid.UUID        `json:"unit_id"`
	UserID         uuid.UUID        `json:"user_id"`
	TargetLanguage string           `json:"target_language"`
	CEFR           domain.CEFRLevel `json:"cefr,omitempty"`
	Count          int              `json:"count,omitempty"`
}

// GeneratedPair is one stored example phrase and its translation.
type GeneratedPair struct {
	PhraseID      uuid.UUID `json:"phrase_id"`
	TranslationID uuid.UUID `json:"translation_id"`
}

// GeneratePhrasesOutput lists the phrase pairs stored by a generation run.
type GeneratePhrasesOutput struct {
	Pairs   []GeneratedPair `json:"pairs"`
	Created int             `json:"created"`
}

// generatePhrases stores LLM-written examples of a unit in the unit's
// language, links them to the unit and to their translations. Newly
// created phrases are queued for enrichment.
func (h *handlers) generatePhrases(ctx context.Context, payload []byte) (Result, error) {
	var p GeneratePhrasesPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	if err := domain.ValidateLanguageCode(p.TargetLanguage); err != nil {
		return Result{}, Terminal(fmt.Errorf("%w: %v", ErrInvalidPayload, err))
	}
	if p.CEFR != "" && !p.CEFR.IsValid() {
		return Result{}, Terminal(fmt.Errorf("%w: %v", ErrInvalidPayload, domain.ErrInvalidCEFR))
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With(
		"unit_id", p.UnitID,
		"target_language", p.TargetLanguage)

	unit, err := h.Repos.Units.GetForUser(ctx, p.UnitID, p.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("lexical unit not found for phrase generation", "user_id", p.UserID)
			return NotFound("lexical unit not found"), nil
		}
		return Result{}, err
	}
	if domain.SamePrimaryLanguage(unit.Language, p.TargetLanguage) {
		log.Warn("target language is the language of the unit")
		return Skipped("target language is the language of the unit"), nil
	}

	generated, err := h.Linguist.GeneratePhrases(ctx, generation.PhraseRequest{
		Lemma:          unit.Lemma,
		PartOfSpeech:   unit.PartOfSpeech,
		SourceLanguage: unit.Language,
		TargetLanguage: p.TargetLanguage,
		CEFR:           p.CEFR,
		Count:          p.Count,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generating phrases for %q: %w", unit.Lemma, err)
	}

	out := GeneratePhrasesOutput{Pairs: []GeneratedPair{}}
	var fresh []uuid.UUID
	enrichFresh := func() {
		for _, id := range fresh {
			h.schedule(ctx, TypeEnrichPhrase, PhrasePayload{PhraseID: id})
		}
	}

	for _, g := range generated {
		cefr := g.CEFR
		var (
			source, target               *domain.Phrase
			edge                         *domain.PhraseTranslation
			sourceCreated, targetCreated bool
		)
		err := h.UnitOfWork.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
			var err error
			source, sourceCreated, err = repos.Phrases.GetOrCreate(ctx, g.OriginalPhrase, unit.Language, &cefr)
			if err != nil {
				return err
			}
			if err := repos.Phrases.LinkUnit(ctx, source.ID, unit.ID); err != nil {
				return err
			}
			target, targetCreated, err = repos.Phrases.GetOrCreate(ctx, g.TranslatedPhrase, p.TargetLanguage, &cefr)
			if err != nil {
				return err
			}
			if _, err := domain.NewPhraseTranslation(source, target); err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
			}
			edge, _, err = repos.Phrases.GetOrCreateTranslation(ctx, source.ID, target.ID)
			return err
		})
		if errors.Is(err, store.ErrInvalidEntity) {
			log.Warn("skipping generated phrase pair", "error", err)
			continue
		}
		if err != nil {
			enrichFresh()
			return Result{}, err
		}

		out.Pairs = append(out.Pairs, GeneratedPair{PhraseID: source.ID, TranslationID: edge.ID})
		if sourceCreated {
			fresh = append(fresh, source.ID)
		}
		if targetCreated {
			fresh = append(fresh, target.ID)
		}
	}

	enrichFresh()
	out.Created = len(fresh)
	log.Info("phrases generated", "pair_count", len(out.Pairs), "created_count", out.Created)
	return OK(out), nil
}
