package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// UnitPayload identifies one lexical unit.
type UnitPayload struct {
	UnitID uuid.UUID `json:"unit_id"`
}

// validateUnit checks that a unit's part of speech is a plausible reading
// of its lemma. Only validation_status and validation_notes are written.
// Stubs are left to enrich_details.
func (h *handlers) validateUnit(ctx context.Context, payload []byte) (Result, error) {
	var p UnitPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With("unit_id", p.UnitID)

	unit, err := h.Repos.Units.GetByID(ctx, p.UnitID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("lexical unit not found for validation")
			return NotFound("lexical unit not found"), nil
		}
		return Result{}, err
	}
	if unit.IsStub() {
		return Skipped("unit has no part of speech"), nil
	}

	details, err := h.Linguist.LemmaDetails(ctx, unit.Lemma, unit.Language)
	if err != nil {
		return Result{}, fmt.Errorf("lemma details for %q: %w", unit.Lemma, err)
	}

	check := checkVariants(log, details, unit.PartOfSpeech)

	var (
		status  domain.ValidationStatus
		notes   string
		outcome Outcome
	)
	switch {
	case len(check.variants) == 0:
		status, notes, outcome = domain.ValidationFailed, noVariantsNote, OutcomeFailed
	case check.match == nil:
		status, notes, outcome = domain.ValidationMismatch, mismatchNote(unit, check), OutcomeMismatch
	default:
		status, notes, outcome = domain.ValidationValid, "", OutcomeOK
	}

	if err := h.Repos.Units.UpdateValidation(ctx, unit.ID, status, notes); err != nil {
		return Result{}, err
	}
	log.Info("unit validated", "validation_status", string(status))
	return Result{Outcome: outcome, Detail: notes}, nil
}
