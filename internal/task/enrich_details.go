package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// EnrichDetailsPayload asks for the full part-of-speech paradigm of a
// user's unit.
type EnrichDetailsPayload struct {
	UnitID      uuid.UUID `json:"unit_id"`
	UserID      uuid.UUID `json:"user_id"`
	ForceUpdate bool      `json:"force_update"`
}

// EnrichDetailsOutput lists the sibling units created by an enrichment run.
type EnrichDetailsOutput struct {
	Created     []uuid.UUID `json:"created"`
	DeletedStub bool        `json:"deleted_stub"`
}

const (
	noFormsNote        = "no valid forms found: " + noVariantsNote
	stubRetainedNote   = "stub retained: has links"
	enrichSkipDetail   = "unit already has a part of speech"
	enrichNoFormDetail = "no valid forms found"
)

// enrichDetails validates a unit against the readings the LLM knows for its
// lemma and materializes the missing ones. A unit whose own part of speech
// is not confirmed never spawns siblings. A stub is replaced by its
// variants and deleted unless something links to it. Created siblings are
// queued for validation after the transaction commits.
func (h *handlers) enrichDetails(ctx context.Context, payload []byte) (Result, error) {
	var p EnrichDetailsPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With("unit_id", p.UnitID)

	unit, err := h.Repos.Units.GetForUser(ctx, p.UnitID, p.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("lexical unit not found for enrichment", "user_id", p.UserID)
			return NotFound("lexical unit not found"), nil
		}
		return Result{}, err
	}

	if !p.ForceUpdate && !unit.IsStub() {
		log.Info("skipping enrichment of specified unit")
		return Skipped(enrichSkipDetail), nil
	}

	details, err := h.Linguist.LemmaDetails(ctx, unit.Lemma, unit.Language)
	if err != nil {
		return Result{}, fmt.Errorf("lemma details for %q: %w", unit.Lemma, err)
	}

	check := checkVariants(log, details, unit.PartOfSpeech)
	if len(check.variants) == 0 {
		log.Warn("no valid forms returned", "lemma", unit.Lemma)
		if err := h.Repos.Units.UpdateValidation(ctx, unit.ID, domain.ValidationFailed, noFormsNote); err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeFailed, Detail: enrichNoFormDetail}, nil
	}

	if !unit.IsStub() {
		if check.match == nil {
			note := mismatchNote(unit, check)
			log.Info("part of speech not confirmed; not materializing variants", "suggested", check.suggested())
			if err := h.Repos.Units.UpdateValidation(ctx, unit.ID, domain.ValidationMismatch, note); err != nil {
				return Result{}, err
			}
			return Result{Outcome: OutcomeMismatch, Detail: note}, nil
		}

		if unit.Validation != domain.ValidationValid || unit.ValidationNotes != "" {
			if err := h.Repos.Units.UpdateValidation(ctx, unit.ID, domain.ValidationValid, ""); err != nil {
				return Result{}, err
			}
		}
		if pron := check.match.IPA(); p.ForceUpdate && pron != "" && pron != unit.Pronunciation {
			if err := h.Repos.Units.UpdatePronunciation(ctx, unit.ID, pron); err != nil {
				return Result{}, err
			}
		}
	}

	out := EnrichDetailsOutput{Created: []uuid.UUID{}}
	err = h.UnitOfWork.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
		materialized := 0
		for _, variant := range check.variants {
			if variant.PartOfSpeech == unit.PartOfSpeech {
				continue
			}
			key := unit.Key()
			key.PartOfSpeech = variant.PartOfSpeech

			sibling, created, err := repos.Units.GetOrCreate(ctx, key, variant.IPA())
			if err != nil {
				return fmt.Errorf("materializing %s variant: %w", variant.PartOfSpeech, err)
			}
			materialized++

			if created {
				out.Created = append(out.Created, sibling.ID)
				log.Info("created variant", "variant_id", sibling.ID, "part_of_speech", string(key.PartOfSpeech))
				continue
			}
			if pron := variant.IPA(); p.ForceUpdate && pron != "" && pron != sibling.Pronunciation {
				if err := repos.Units.UpdatePronunciation(ctx, sibling.ID, pron); err != nil {
					return err
				}
			}
		}

		if !unit.IsStub() || materialized == 0 {
			return nil
		}

		linked, err := repos.Units.HasLinks(ctx, unit.ID)
		if err != nil {
			return err
		}
		if linked {
			log.Warn("stub not deleted because it is linked to translations or phrases")
			return repos.Units.UpdateValidation(ctx, unit.ID, domain.ValidationValid, stubRetainedNote)
		}
		if err := repos.Units.Delete(ctx, unit.ID); err != nil {
			return err
		}
		out.DeletedStub = true
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	for _, id := range out.Created {
		h.schedule(ctx, TypeValidateUnit, UnitPayload{UnitID: id})
	}
	log.Info("enrichment completed", "created_count", len(out.Created), "deleted_stub", out.DeletedStub)
	return OK(out), nil
}
