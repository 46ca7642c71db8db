package domain

// PartOfSpeech is the grammatical class of a lexical unit. The empty value
// marks a stub whose part of speech is not yet known.
type PartOfSpeech string

const (
	POSUnspecified  PartOfSpeech = ""
	POSNoun         PartOfSpeech = "noun"
	POSVerb         PartOfSpeech = "verb"
	POSAdjective    PartOfSpeech = "adj"
	POSAdverb       PartOfSpeech = "adv"
	POSPronoun      PartOfSpeech = "pron"
	POSPreposition  PartOfSpeech = "prep"
	POSConjunction  PartOfSpeech = "conj"
	POSInterjection PartOfSpeech = "interj"
	POSNumeral      PartOfSpeech = "num"
	POSParticle     PartOfSpeech = "part"
)

// PartsOfSpeech lists every specific part of speech in display order.
func PartsOfSpeech() []PartOfSpeech {
	return []PartOfSpeech{
		POSNoun, POSVerb, POSAdjective, POSAdverb, POSPronoun,
		POSPreposition, POSConjunction, POSInterjection, POSNumeral, POSParticle,
	}
}

// IsValid reports whether p is a specific part of speech. The stub value
// is not valid here; callers that accept stubs check IsStub first.
func (p PartOfSpeech) IsValid() bool {
	for _, v := range PartsOfSpeech() {
		if p == v {
			return true
		}
	}
	return false
}

// IsStub reports whether the part of speech is unspecified.
func (p PartOfSpeech) IsStub() bool {
	return p == POSUnspecified
}

// LexicalCategory classifies the shape of a lexical unit.
type LexicalCategory string

const (
	CategorySingleWord  LexicalCategory = "SINGLE_WORD"
	CategoryCollocation LexicalCategory = "COLLOCATION"
	CategoryPhrasalVerb LexicalCategory = "PHRASAL_VERB"
	CategoryIdiom       LexicalCategory = "IDIOM"
)

// IsValid reports whether c is a known lexical category.
func (c LexicalCategory) IsValid() bool {
	switch c {
	case CategorySingleWord, CategoryCollocation, CategoryPhrasalVerb, CategoryIdiom:
		return true
	default:
		return false
	}
}

// LearningStatus tracks where a unit is in the user's learning cycle.
type LearningStatus string

const (
	LearningStatusLearning LearningStatus = "learning"
	LearningStatusKnown    LearningStatus = "known"
	LearningStatusToReview LearningStatus = "to_review"
)

// IsValid reports whether s is a known learning status.
func (s LearningStatus) IsValid() bool {
	switch s {
	case LearningStatusLearning, LearningStatusKnown, LearningStatusToReview:
		return true
	default:
		return false
	}
}

// ValidationStatus is the outcome of the most recent background check on an
// entity. It is the channel through which asynchronous failures surface.
type ValidationStatus string

const (
	ValidationUnverified ValidationStatus = "unverified"
	ValidationValid      ValidationStatus = "valid"
	ValidationMismatch   ValidationStatus = "mismatch"
	ValidationFailed     ValidationStatus = "failed"
)

// IsValid reports whether s is a known validation status.
func (s ValidationStatus) IsValid() bool {
	switch s {
	case ValidationUnverified, ValidationValid, ValidationMismatch, ValidationFailed:
		return true
	default:
		return false
	}
}

// TranslationType records how a translation edge came to exist.
type TranslationType string

const (
	TranslationManual   TranslationType = "manual"
	TranslationAI       TranslationType = "ai"
	TranslationUser     TranslationType = "user"
	TranslationImported TranslationType = "imported"
)

// IsValid reports whether t is a known translation type.
func (t TranslationType) IsValid() bool {
	switch t {
	case TranslationManual, TranslationAI, TranslationUser, TranslationImported:
		return true
	default:
		return false
	}
}

// CEFRLevel is a proficiency level on the Common European Framework scale.
type CEFRLevel string

const (
	CEFRA1 CEFRLevel = "A1"
	CEFRA2 CEFRLevel = "A2"
	CEFRB1 CEFRLevel = "B1"
	CEFRB2 CEFRLevel = "B2"
	CEFRC1 CEFRLevel = "C1"
	CEFRC2 CEFRLevel = "C2"
)

// CEFRLevels lists the levels from lowest to highest.
func CEFRLevels() []CEFRLevel {
	return []CEFRLevel{CEFRA1, CEFRA2, CEFRB1, CEFRB2, CEFRC1, CEFRC2}
}

// IsValid reports whether l is a known CEFR level.
func (l CEFRLevel) IsValid() bool {
	for _, v := range CEFRLevels() {
		if l == v {
			return true
		}
	}
	return false
}

// PhraseCategory classifies a phrase.
type PhraseCategory string

const (
	PhraseGeneral PhraseCategory = "GENERAL"
	PhraseIdiom   PhraseCategory = "IDIOM"
	PhraseProverb PhraseCategory = "PROVERB"
	PhraseQuote   PhraseCategory = "QUOTE"
)

// PhraseCategories lists every phrase category.
func PhraseCategories() []PhraseCategory {
	return []PhraseCategory{PhraseGeneral, PhraseIdiom, PhraseProverb, PhraseQuote}
}

// IsValid reports whether c is a known phrase category.
func (c PhraseCategory) IsValid() bool {
	for _, v := range PhraseCategories() {
		if c == v {
			return true
		}
	}
	return false
}
