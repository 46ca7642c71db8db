package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// LexicalUnitStore persists lexical units.
//
// The narrow Update* methods write only the columns they name so that
// background tasks racing on the same row do not clobber each other's
// fields.
type LexicalUnitStore interface {
	// Create saves a new unit. Returns ErrUnitExists on a natural-key conflict.
	Create(ctx context.Context, unit *domain.LexicalUnit) error

	// GetByID returns ErrUnitNotFound when the unit does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LexicalUnit, error)

	// GetForUser is GetByID scoped to an owner.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.LexicalUnit, error)

	// GetOrCreate returns the unit matching key, creating it with the given
	// pronunciation when absent. The bool reports whether a row was created.
	GetOrCreate(ctx context.Context, key domain.UnitKey, pronunciation string) (*domain.LexicalUnit, bool, error)

	// ListByUser returns a user's units ordered by date added, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.LexicalUnit, error)

	// PartsOfSpeech returns the parts of speech already stored for
	// (userID, lemma, language) across all categories.
	PartsOfSpeech(ctx context.Context, userID uuid.UUID, lemma, language string) ([]domain.PartOfSpeech, error)

	// Lemmas returns every distinct lemma the user has recorded.
	Lemmas(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Update writes the user-editable fields of a unit.
	Update(ctx context.Context, unit *domain.LexicalUnit) error

	// UpdateValidation writes only validation_status and validation_notes.
	UpdateValidation(ctx context.Context, id uuid.UUID, status domain.ValidationStatus, notes string) error

	// UpdatePronunciation writes only the pronunciation.
	UpdatePronunciation(ctx context.Context, id uuid.UUID, pronunciation string) error

	// HasLinks reports whether the unit is an endpoint of any translation or
	// is associated with any phrase.
	HasLinks(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes the unit. Returns ErrUnitNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
