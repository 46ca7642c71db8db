package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for LexicalUnit
var (
	ErrEmptyUnitID         = errors.New("lexical unit ID cannot be empty")
	ErrEmptyUnitUserID     = errors.New("lexical unit user ID cannot be empty")
	ErrEmptyLemma          = errors.New("lemma cannot be empty")
	ErrInvalidPartOfSpeech = fmt.Errorf("%w: part of speech", ErrInvalidEnumValue)
	ErrInvalidCategory     = fmt.Errorf("%w: lexical category", ErrInvalidEnumValue)
	ErrInvalidLearning     = fmt.Errorf("%w: learning status", ErrInvalidEnumValue)
	ErrInvalidValidation   = fmt.Errorf("%w: validation status", ErrInvalidEnumValue)
)

// LexicalUnit is a word, collocation, phrasal verb or idiom owned by one
// user. The tuple (UserID, Lemma, Language, PartOfSpeech, LexicalCategory)
// is unique.
type LexicalUnit struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Lemma           string           `json:"lemma"`
	LexicalCategory LexicalCategory  `json:"lexical_category"`
	Language        string           `json:"language"`
	PartOfSpeech    PartOfSpeech     `json:"part_of_speech"`
	Status          LearningStatus   `json:"status"`
	Pronunciation   string           `json:"pronunciation"`
	Notes           string           `json:"notes"`
	Validation      ValidationStatus `json:"validation_status"`
	ValidationNotes string           `json:"validation_notes"`
	DateAdded       time.Time        `json:"date_added"`
	LastReviewed    *time.Time       `json:"last_reviewed,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// UnitKey is the natural key of a lexical unit. It is what get-or-create
// lookups match on.
type UnitKey struct {
	UserID          uuid.UUID
	Lemma           string
	Language        string
	PartOfSpeech    PartOfSpeech
	LexicalCategory LexicalCategory
}

// Normalize canonicalizes the lemma and defaults the category.
func (k UnitKey) Normalize() UnitKey {
	k.Lemma = Canonicalize(k.Lemma)
	if k.LexicalCategory == "" {
		k.LexicalCategory = CategorySingleWord
	}
	return k
}

// NewLexicalUnit builds a unit for the given key with default statuses.
// The lemma is canonicalized; an empty part of speech creates a stub.
func NewLexicalUnit(key UnitKey, pronunciation string) (*LexicalUnit, error) {
	key = key.Normalize()
	now := time.Now().UTC()
	unit := &LexicalUnit{
		ID:              uuid.New(),
		UserID:          key.UserID,
		Lemma:           key.Lemma,
		LexicalCategory: key.LexicalCategory,
		Language:        key.Language,
		PartOfSpeech:    key.PartOfSpeech,
		Status:          LearningStatusLearning,
		Pronunciation:   pronunciation,
		Validation:      ValidationUnverified,
		DateAdded:       now,
		UpdatedAt:       now,
	}

	if err := unit.Validate(); err != nil {
		return nil, err
	}

	return unit, nil
}

// Key returns the natural key of the unit.
func (u *LexicalUnit) Key() UnitKey {
	return UnitKey{
		UserID:          u.UserID,
		Lemma:           u.Lemma,
		Language:        u.Language,
		PartOfSpeech:    u.PartOfSpeech,
		LexicalCategory: u.LexicalCategory,
	}
}

// IsStub reports whether the unit is still waiting for a part of speech.
func (u *LexicalUnit) IsStub() bool {
	return u.PartOfSpeech.IsStub()
}

// Validate checks if the LexicalUnit has valid data.
func (u *LexicalUnit) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUnitID
	}
	if u.UserID == uuid.Nil {
		return ErrEmptyUnitUserID
	}
	if u.Lemma == "" {
		return ErrEmptyLemma
	}
	if err := ValidateLanguageCode(u.Language); err != nil {
		return err
	}
	if !u.PartOfSpeech.IsStub() && !u.PartOfSpeech.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPartOfSpeech, u.PartOfSpeech)
	}
	if !u.LexicalCategory.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, u.LexicalCategory)
	}
	if !u.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLearning, u.Status)
	}
	if !u.Validation.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidValidation, u.Validation)
	}
	return nil
}

// SetValidation records a validation outcome on the unit.
func (u *LexicalUnit) SetValidation(status ValidationStatus, notes string) {
	u.Validation = status
	u.ValidationNotes = notes
	u.UpdatedAt = time.Now().UTC()
}

func (u *LexicalUnit) String() string {
	if u.IsStub() {
		return fmt.Sprintf("%s [%s]", u.Lemma, u.Language)
	}
	return fmt.Sprintf("%s (%s) [%s]", u.Lemma, u.PartOfSpeech, u.Language)
}
