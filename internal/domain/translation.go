package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation errors for translation edges. The messages are shown to API
// callers as-is.
var (
	ErrSelfTranslation        = errors.New("A unit cannot translate to itself.")
	ErrSameLanguage           = errors.New("Source and target units must be in different languages.")
	ErrDifferentOwners        = errors.New("Source and target units must belong to the same user.")
	ErrInvalidConfidence      = errors.New("confidence must be between 0 and 1")
	ErrInvalidTranslationType = fmt.Errorf("%w: translation type", ErrInvalidEnumValue)
)

// LexicalUnitTranslation is a directed edge from one lexical unit to another
// in a different language.
type LexicalUnitTranslation struct {
	ID              uuid.UUID        `json:"id"`
	SourceUnitID    uuid.UUID        `json:"source_unit_id"`
	TargetUnitID    uuid.UUID        `json:"target_unit_id"`
	Type            TranslationType  `json:"translation_type"`
	Confidence      *float64         `json:"confidence,omitempty"`
	Validation      ValidationStatus `json:"validation_status"`
	ValidationNotes string           `json:"validation_notes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewLexicalUnitTranslation links source to target after checking the edge
// invariants against both endpoints.
func NewLexicalUnitTranslation(
	source, target *LexicalUnit,
	translationType TranslationType,
) (*LexicalUnitTranslation, error) {
	if err := ValidateTranslationEndpoints(source, target); err != nil {
		return nil, err
	}
	if translationType == "" {
		translationType = TranslationManual
	}

	now := time.Now().UTC()
	t := &LexicalUnitTranslation{
		ID:           uuid.New(),
		SourceUnitID: source.ID,
		TargetUnitID: target.ID,
		Type:         translationType,
		Validation:   ValidationUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ValidateTranslationEndpoints enforces the rules an edge needs from its two
// units: distinct units, one owner, different primary languages.
func ValidateTranslationEndpoints(source, target *LexicalUnit) error {
	if source == nil || target == nil {
		return fmt.Errorf("%w: translation endpoints are required", ErrValidation)
	}
	if source.ID == target.ID {
		return ErrSelfTranslation
	}
	if source.UserID != target.UserID {
		return ErrDifferentOwners
	}
	if SamePrimaryLanguage(source.Language, target.Language) {
		return ErrSameLanguage
	}
	return nil
}

// Validate checks the edge's own fields.
func (t *LexicalUnitTranslation) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.SourceUnitID == uuid.Nil || t.TargetUnitID == uuid.Nil {
		return fmt.Errorf("%w: translation endpoints are required", ErrValidation)
	}
	if t.SourceUnitID == t.TargetUnitID {
		return ErrSelfTranslation
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTranslationType, t.Type)
	}
	if t.Confidence != nil && (*t.Confidence < 0 || *t.Confidence > 1) {
		return ErrInvalidConfidence
	}
	if !t.Validation.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidValidation, t.Validation)
	}
	return nil
}

// SetVerification records a quality verdict on the edge.
func (t *LexicalUnitTranslation) SetVerification(
	status ValidationStatus,
	notes string,
	confidence float64,
) {
	t.Validation = status
	t.ValidationNotes = notes
	t.Confidence = &confidence
	t.UpdatedAt = time.Now().UTC()
}

// TranslationWithUnits is an edge loaded together with both endpoints.
type TranslationWithUnits struct {
	Translation *LexicalUnitTranslation
	Source      *LexicalUnit
	Target      *LexicalUnit
}
