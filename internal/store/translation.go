package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// TranslationStore persists translation edges between lexical units.
type TranslationStore interface {
	// Create saves a new edge. Returns ErrTranslationExists when the
	// (source, target) pair is taken.
	Create(ctx context.Context, t *domain.LexicalUnitTranslation) error

	// GetOrCreate returns the edge for (sourceID, targetID), creating it with
	// the given type when absent. The bool reports whether it was created.
	GetOrCreate(
		ctx context.Context,
		sourceID, targetID uuid.UUID,
		translationType domain.TranslationType,
	) (*domain.LexicalUnitTranslation, bool, error)

	// GetByID returns ErrTranslationNotFound when the edge does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LexicalUnitTranslation, error)

	// GetWithUnits loads an edge together with both endpoint units.
	GetWithUnits(ctx context.Context, id uuid.UUID) (*domain.TranslationWithUnits, error)

	// ListBySource returns every edge leaving the unit.
	ListBySource(ctx context.Context, sourceID uuid.UUID) ([]*domain.LexicalUnitTranslation, error)

	// UpdateVerification writes status, notes and confidence together.
	UpdateVerification(
		ctx context.Context,
		id uuid.UUID,
		status domain.ValidationStatus,
		notes string,
		confidence float64,
	) error
}
