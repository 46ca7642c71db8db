package task

import (
	"context"
	"fmt"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// VerificationStatus maps a 1-5 quality score onto a validation status.
func VerificationStatus(score int) domain.ValidationStatus {
	switch {
	case score >= 4:
		return domain.ValidationValid
	case score >= 2:
		return domain.ValidationMismatch
	default:
		return domain.ValidationFailed
	}
}

// VerificationFailedNote is the note written when no usable score came back.
func VerificationFailedNote(reason error) string {
	return fmt.Sprintf("Verification failed: LLM did not return a valid response (%v)", reason)
}

// verifyTranslation scores one edge and stores status, notes and confidence
// together. Every failure is a final judgment on the edge: it is written
// as FAILED and the task is not retried.
func (h *handlers) verifyTranslation(ctx context.Context, payload []byte) (Result, error) {
	var p TranslationPayload
	if err := decodePayload(payload, &p); err != nil {
		return Result{}, err
	}
	log := logger.FromContextOrDefault(ctx, h.logger).With("translation_id", p.TranslationID)

	edge, err := h.Repos.Translations.GetWithUnits(ctx, p.TranslationID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("translation not found for verification")
			return NotFound("translation not found"), nil
		}
		return h.failVerification(ctx, p, err)
	}

	resp, err := h.Linguist.VerifyTranslation(ctx, edge.Source, edge.Target)
	if err == nil && resp == nil {
		err = generation.ErrEmptyResponse
	}
	if err != nil {
		log.Warn("verification call failed", "error", err)
		return h.failVerification(ctx, p, err)
	}

	status := VerificationStatus(resp.QualityScore)
	confidence := float64(resp.QualityScore) / 5.0
	if err := h.Repos.Translations.UpdateVerification(ctx, p.TranslationID, status, resp.Justification, confidence); err != nil {
		return h.failVerification(ctx, p, err)
	}

	log.Info("translation verified",
		"quality_score", resp.QualityScore,
		"validation_status", string(status))
	return Result{Outcome: outcomeFor(status), Detail: resp.Justification}, nil
}

// failVerification writes FAILED with zero confidence on a best-effort
// basis and ends the task.
func (h *handlers) failVerification(ctx context.Context, p TranslationPayload, reason error) (Result, error) {
	note := VerificationFailedNote(reason)
	err := h.Repos.Translations.UpdateVerification(ctx, p.TranslationID, domain.ValidationFailed, note, 0)
	if err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Error("failed to record verification failure",
			"translation_id", p.TranslationID,
			"error", err)
		return Result{}, Terminal(fmt.Errorf("%s: %w", note, err))
	}
	return Result{Outcome: OutcomeFailed, Detail: note}, nil
}

func outcomeFor(status domain.ValidationStatus) Outcome {
	switch status {
	case domain.ValidationValid:
		return OutcomeOK
	case domain.ValidationMismatch:
		return OutcomeMismatch
	default:
		return OutcomeFailed
	}
}
