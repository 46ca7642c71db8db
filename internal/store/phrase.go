package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// PhraseStore persists phrases, their unit associations and translations.
type PhraseStore interface {
	// Create saves a new phrase. Returns ErrPhraseExists when (text, language)
	// is taken.
	Create(ctx context.Context, phrase *domain.Phrase) error

	// GetByID returns the phrase with its associated unit ids, or
	// ErrPhraseNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Phrase, error)

	// GetOrCreate returns the phrase for (text, language), creating it with
	// the given CEFR level when absent.
	GetOrCreate(ctx context.Context, text, language string, cefr *domain.CEFRLevel) (*domain.Phrase, bool, error)

	// UpdateEnrichment writes cefr, category, validation_status and
	// validation_notes.
	UpdateEnrichment(ctx context.Context, phrase *domain.Phrase) error

	// UpdateValidation writes only validation_status and validation_notes.
	UpdateValidation(ctx context.Context, id uuid.UUID, status domain.ValidationStatus, notes string) error

	// LinkUnit associates a phrase with a lexical unit. Linking twice is a no-op.
	LinkUnit(ctx context.Context, phraseID, unitID uuid.UUID) error

	// GetOrCreateTranslation returns the phrase edge for (sourceID,
	// targetID), creating it when absent.
	GetOrCreateTranslation(ctx context.Context, sourceID, targetID uuid.UUID) (*domain.PhraseTranslation, bool, error)

	// CreateTranslation saves a new phrase edge. Returns ErrDuplicate when
	// the pair is taken.
	CreateTranslation(ctx context.Context, t *domain.PhraseTranslation) error
}
