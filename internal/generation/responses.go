package generation

import (
	"fmt"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// LemmaDetail is one part-of-speech reading of a lemma.
type LemmaDetail struct {
	PartOfSpeech  domain.PartOfSpeech `json:"part_of_speech" validate:"required"`
	Pronunciation *string             `json:"pronunciation"`
}

// IPA returns the pronunciation, or "" when the model returned null.
func (d LemmaDetail) IPA() string {
	if d.Pronunciation == nil {
		return ""
	}
	return *d.Pronunciation
}

// LemmaDetailsResponse lists every reading of a lemma. An empty list means
// the lemma is not a word of the language.
type LemmaDetailsResponse struct {
	LemmaDetails []LemmaDetail `json:"lemma_details" validate:"required,dive"`
}

// TranslationResponse is a translated lemma together with the readings of
// the translation.
type TranslationResponse struct {
	TranslatedLemma    string        `json:"translated_lemma"`
	TranslationDetails []LemmaDetail `json:"translation_details" validate:"dive"`
}

// VerificationResponse is a 1-5 quality score for a translation.
type VerificationResponse struct {
	QualityScore  int    `json:"quality_score" validate:"min=1,max=5"`
	Justification string `json:"justification" validate:"required"`
}

// PhraseAnalysisResponse is the model's assessment of a phrase.
type PhraseAnalysisResponse struct {
	IsValid       *bool                 `json:"is_valid" validate:"required"`
	Justification *string               `json:"justification"`
	LanguageCode  string                `json:"language_code" validate:"required"`
	CEFRLevel     domain.CEFRLevel      `json:"cefr_level" validate:"required"`
	Category      domain.PhraseCategory `json:"category" validate:"required"`
}

// Validate checks the enumerated fields.
func (r *PhraseAnalysisResponse) Validate() error {
	if !r.CEFRLevel.IsValid() {
		return fmt.Errorf("cefr_level %q is not a CEFR level", r.CEFRLevel)
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("category %q is not a phrase category", r.Category)
	}
	if err := domain.ValidateLanguageCode(r.LanguageCode); err != nil {
		return fmt.Errorf("language_code: %v", err)
	}
	return nil
}

// ExtractionResponse lists lemmas found in a text.
type ExtractionResponse struct {
	Lemmas []string `json:"lemmas" validate:"required"`
}

// GeneratedPhrase is one example sentence and its translation.
type GeneratedPhrase struct {
	OriginalPhrase   string           `json:"original_phrase" validate:"required"`
	TranslatedPhrase string           `json:"translated_phrase" validate:"required"`
	CEFR             domain.CEFRLevel `json:"cefr" validate:"required"`
}

// GeneratedPhrasesResponse wraps generated example sentences.
type GeneratedPhrasesResponse struct {
	Phrases []GeneratedPhrase `json:"phrases" validate:"required,dive"`
}

// Validate checks every phrase's CEFR level.
func (r *GeneratedPhrasesResponse) Validate() error {
	for i, p := range r.Phrases {
		if !p.CEFR.IsValid() {
			return fmt.Errorf("phrases[%d].cefr %q is not a CEFR level", i, p.CEFR)
		}
	}
	return nil
}

func lemmaDetailSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"part_of_speech": EnumSchema("Part of speech of this reading.", domain.PartsOfSpeech()),
		"pronunciation":  StringSchema("IPA pronunciation between slashes.").OrNull(),
	}, "part_of_speech", "pronunciation")
}

// LemmaDetailsSchema constrains LemmaDetailsResponse.
func LemmaDetailsSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"lemma_details": ArraySchema(lemmaDetailSchema()),
	}, "lemma_details")
}

// TranslationSchema constrains TranslationResponse.
func TranslationSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"translated_lemma":    StringSchema("Dictionary form of the translation."),
		"translation_details": ArraySchema(lemmaDetailSchema()),
	}, "translated_lemma", "translation_details")
}

// VerificationSchema constrains VerificationResponse.
func VerificationSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"quality_score": IntegerSchema("An integer score from 1 to 5.", 1, 5),
		"justification": StringSchema("A brief justification for the score."),
	}, "quality_score", "justification")
}

// PhraseAnalysisSchema constrains PhraseAnalysisResponse.
func PhraseAnalysisSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"is_valid":      BooleanSchema("Is the phrase grammatically correct AND natural-sounding?"),
		"justification": StringSchema("Why the phrase is invalid, unnatural or in another language.").OrNull(),
		"language_code": StringSchema("The detected BCP-47 language code (e.g., en-GB, es)."),
		"cefr_level":    EnumSchema("The estimated CEFR level of the phrase.", domain.CEFRLevels()),
		"category":      EnumSchema("The most likely category for the phrase.", domain.PhraseCategories()),
	}, "is_valid", "justification", "language_code", "cefr_level", "category")
}

// ExtractionSchema constrains ExtractionResponse.
func ExtractionSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"lemmas": ArraySchema(StringSchema("A canonical lemma.")),
	}, "lemmas")
}

// GeneratedPhrasesSchema constrains GeneratedPhrasesResponse.
func GeneratedPhrasesSchema() *Schema {
	return ObjectSchema(map[string]*Schema{
		"phrases": ArraySchema(ObjectSchema(map[string]*Schema{
			"original_phrase":   StringSchema("The example phrase in the original language."),
			"translated_phrase": StringSchema("The translated phrase."),
			"cefr":              EnumSchema("The CEFR level of the original phrase.", domain.CEFRLevels()),
		}, "original_phrase", "translated_phrase", "cefr")),
	}, "phrases")
}
