package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Phrase
var (
	ErrEmptyPhraseText      = errors.New("phrase text cannot be empty")
	ErrInvalidCEFR          = fmt.Errorf("%w: CEFR level", ErrInvalidEnumValue)
	ErrInvalidPhraseCat     = fmt.Errorf("%w: phrase category", ErrInvalidEnumValue)
	ErrSelfPhraseTranslate  = errors.New("A phrase cannot translate to itself.")
	ErrSamePhraseLanguage   = errors.New("Source and target phrases must be in different languages.")
	ErrEmptyPhraseEndpoints = errors.New("phrase translation endpoints are required")
)

// Phrase is a sentence or expression in one language. Phrases are shared
// between users; (Text, Language) is unique.
type Phrase struct {
	ID              uuid.UUID        `json:"id"`
	Text            string           `json:"text"`
	Language        string           `json:"language"`
	CEFR            *CEFRLevel       `json:"cefr,omitempty"`
	Category        *PhraseCategory  `json:"category,omitempty"`
	UnitIDs         []uuid.UUID      `json:"units,omitempty"`
	Validation      ValidationStatus `json:"validation_status"`
	ValidationNotes string           `json:"validation_notes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewPhrase creates an unverified phrase. Text is trimmed but keeps its case.
func NewPhrase(text, language string, cefr *CEFRLevel, category *PhraseCategory) (*Phrase, error) {
	now := time.Now().UTC()
	p := &Phrase{
		ID:         uuid.New(),
		Text:       strings.TrimSpace(text),
		Language:   language,
		CEFR:       cefr,
		Category:   category,
		Validation: ValidationUnverified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Phrase has valid data.
func (p *Phrase) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.Text == "" {
		return ErrEmptyPhraseText
	}
	if err := ValidateLanguageCode(p.Language); err != nil {
		return err
	}
	if p.CEFR != nil && !p.CEFR.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCEFR, *p.CEFR)
	}
	if p.Category != nil && !p.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPhraseCat, *p.Category)
	}
	if !p.Validation.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidValidation, p.Validation)
	}
	return nil
}

// PhraseTranslation is a directed edge between two phrases.
type PhraseTranslation struct {
	ID             uuid.UUID `json:"id"`
	SourcePhraseID uuid.UUID `json:"source_phrase_id"`
	TargetPhraseID uuid.UUID `json:"target_phrase_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewPhraseTranslation links two phrases in different languages.
func NewPhraseTranslation(source, target *Phrase) (*PhraseTranslation, error) {
	if source == nil || target == nil {
		return nil, ErrEmptyPhraseEndpoints
	}
	if source.ID == target.ID {
		return nil, ErrSelfPhraseTranslate
	}
	if SamePrimaryLanguage(source.Language, target.Language) {
		return nil, ErrSamePhraseLanguage
	}
	return &PhraseTranslation{
		ID:             uuid.New(),
		SourcePhraseID: source.ID,
		TargetPhraseID: target.ID,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// ParseCEFR converts s to a level; empty input yields nil.
func ParseCEFR(s string) (*CEFRLevel, error) {
	if s == "" {
		return nil, nil
	}
	level := CEFRLevel(strings.ToUpper(s))
	if !level.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCEFR, s)
	}
	return &level, nil
}

// ParsePhraseCategory converts s to a category; empty input yields nil.
func ParsePhraseCategory(s string) (*PhraseCategory, error) {
	if s == "" {
		return nil, nil
	}
	c := PhraseCategory(strings.ToUpper(s))
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhraseCat, s)
	}
	return &c, nil
}
