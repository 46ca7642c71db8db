package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
)

// UnitRequest is the body for creating or updating a lexical unit. An empty
// part_of_speech creates a stub.
type UnitRequest struct {
	Lemma           string `json:"lemma"            validate:"required,max=255"`
	Language        string `json:"language"         validate:"required,language"`
	PartOfSpeech    string `json:"part_of_speech"   validate:"omitempty,pos"`
	LexicalCategory string `json:"lexical_category" validate:"omitempty,lexical_category"`
	Pronunciation   string `json:"pronunciation"    validate:"max=255"`
	Notes           string `json:"notes"`
	Status          string `json:"status"           validate:"omitempty,learning_status"`
}

func (r UnitRequest) toInput() service.UnitInput {
	return service.UnitInput{
		Lemma:           r.Lemma,
		Language:        r.Language,
		PartOfSpeech:    domain.PartOfSpeech(r.PartOfSpeech),
		LexicalCategory: domain.LexicalCategory(r.LexicalCategory),
		Pronunciation:   r.Pronunciation,
		Notes:           r.Notes,
		Status:          domain.LearningStatus(r.Status),
	}
}

// UnitListResponse wraps a page of lexical units.
type UnitListResponse struct {
	Units  []*domain.LexicalUnit `json:"units"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// LinkRequest connects two existing lexical units.
type LinkRequest struct {
	SourceUnitID    uuid.UUID `json:"source_unit_id"   validate:"required"`
	TargetUnitID    uuid.UUID `json:"target_unit_id"   validate:"required"`
	TranslationType string    `json:"translation_type" validate:"omitempty,translation_type"`
	Confidence      *float64  `json:"confidence"       validate:"omitempty,gte=0,lte=1"`
}

// BulkTranslationRequest creates a source unit, its targets and the links
// between them in one call.
type BulkTranslationRequest struct {
	Source          UnitRequest   `json:"source"           validate:"required"`
	Targets         []UnitRequest `json:"targets"          validate:"required,min=1,dive"`
	TranslationType string        `json:"translation_type" validate:"omitempty,translation_type"`
	Confidence      *float64      `json:"confidence"       validate:"omitempty,gte=0,lte=1"`
}

// BulkTranslationResponse is returned by POST /translations/bulk.
type BulkTranslationResponse struct {
	Source       *domain.LexicalUnit              `json:"source"`
	Translations []*domain.LexicalUnitTranslation `json:"translations"`
}

// TranslationResponse is one translation link with both of its units.
type TranslationResponse struct {
	*domain.LexicalUnitTranslation
	Source *domain.LexicalUnit `json:"source_unit"`
	Target *domain.LexicalUnit `json:"target_unit"`
}

// ImportItemRequest is one unit or phrase in an import.
type ImportItemRequest struct {
	Text            string `json:"text"             validate:"required"`
	Language        string `json:"language"         validate:"required,language"`
	PartOfSpeech    string `json:"part_of_speech"   validate:"omitempty,pos"`
	LexicalCategory string `json:"lexical_category" validate:"omitempty,lexical_category"`
	Pronunciation   string `json:"pronunciation"`
}

func (r ImportItemRequest) toItem() service.ImportItem {
	return service.ImportItem{
		Text:            r.Text,
		Language:        r.Language,
		PartOfSpeech:    domain.PartOfSpeech(r.PartOfSpeech),
		LexicalCategory: domain.LexicalCategory(r.LexicalCategory),
		Pronunciation:   r.Pronunciation,
	}
}

// ImportRequest stores an externally produced entry with its translations.
type ImportRequest struct {
	EntityType string              `json:"entity_type" validate:"required,oneof=LEXICAL_UNIT PHRASE"`
	Source     ImportItemRequest   `json:"source"      validate:"required"`
	Targets    []ImportItemRequest `json:"targets"     validate:"dive"`
	Confidence *float64            `json:"confidence"  validate:"omitempty,gte=0,lte=1"`
}

// ImportResponse reports the entities an import produced.
type ImportResponse struct {
	EntityType    string                `json:"entity_type"`
	SourceUnit    *domain.LexicalUnit   `json:"source_unit,omitempty"`
	TargetUnits   []*domain.LexicalUnit `json:"target_units,omitempty"`
	SourcePhrase  *domain.Phrase        `json:"source_phrase,omitempty"`
	TargetPhrases []*domain.Phrase      `json:"target_phrases,omitempty"`
}

// PhraseRequest creates a phrase, optionally linked to the caller's units.
type PhraseRequest struct {
	Text     string      `json:"text"     validate:"required"`
	Language string      `json:"language" validate:"required,language"`
	CEFR     string      `json:"cefr"`
	Category string      `json:"category"`
	UnitIDs  []uuid.UUID `json:"unit_ids"`
}

// PhraseTranslationRequest links two phrases.
type PhraseTranslationRequest struct {
	SourcePhraseID uuid.UUID `json:"source_phrase_id" validate:"required"`
	TargetPhraseID uuid.UUID `json:"target_phrase_id" validate:"required"`
}

// ResolveLemmaRequest asks for the variants of a lemma.
type ResolveLemmaRequest struct {
	Lemma    string `json:"lemma"    validate:"required,max=255"`
	Language string `json:"language" validate:"required,language"`
}

// EnrichDetailsRequest is the optional body of POST /units/{id}/enrich-details.
type EnrichDetailsRequest struct {
	ForceUpdate bool `json:"force_update"`
}

// TranslateRequest is the body of POST /units/{id}/translate.
type TranslateRequest struct {
	TargetLanguage string `json:"target_language" validate:"required,language"`
}

// GeneratePhrasesRequest is the body of POST /units/{id}/generate-phrases.
type GeneratePhrasesRequest struct {
	TargetLanguage string `json:"target_language" validate:"required,language"`
	CEFR           string `json:"cefr"`
	Count          int    `json:"count"           validate:"gte=0,lte=20"`
}

// AnalyzeTextRequest is the body of POST /analyze-text.
type AnalyzeTextRequest struct {
	Text     string `json:"text"     validate:"required,max=20000"`
	Language string `json:"language" validate:"omitempty,language"`
}

// TaskAcceptedResponse is returned by every endpoint that queues a task.
type TaskAcceptedResponse struct {
	Message string    `json:"message"`
	TaskID  uuid.UUID `json:"task_id"`
}
