package domain

import (
	"testing"

	"github.com/google/uuid"
)

func mustUnit(t *testing.T, userID uuid.UUID, lemma, lang string) *LexicalUnit {
	t.Helper()
	u, err := NewLexicalUnit(UnitKey{UserID: userID, Lemma: lemma, Language: lang, PartOfSpeech: POSNoun}, "")
	if err != nil {
		t.Fatalf("NewLexicalUnit: %v", err)
	}
	return u
}

func TestNewLexicalUnitTranslation(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	house := mustUnit(t, owner, "house", "en")
	haus := mustUnit(t, owner, "haus", "de")

	tr, err := NewLexicalUnitTranslation(house, haus, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tr.Type != TranslationManual {
		t.Errorf("Expected default type manual, got %s", tr.Type)
	}
	if tr.Confidence != nil {
		t.Error("Expected confidence to start empty")
	}

	tr.SetVerification(ValidationValid, "fine", 1.0)
	if tr.Confidence == nil || *tr.Confidence != 1.0 {
		t.Error("Expected confidence to be recorded")
	}
}

func TestValidateTranslationEndpoints(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	house := mustUnit(t, owner, "house", "en")
	home := mustUnit(t, owner, "home", "en-GB")
	haus := mustUnit(t, owner, "haus", "de")
	foreign := mustUnit(t, uuid.New(), "maison", "fr")

	if err := ValidateTranslationEndpoints(house, house); err != ErrSelfTranslation {
		t.Errorf("Expected ErrSelfTranslation, got %v", err)
	}
	if err := ValidateTranslationEndpoints(house, home); err != ErrSameLanguage {
		t.Errorf("Expected ErrSameLanguage for regional variant, got %v", err)
	}
	err := ValidateTranslationEndpoints(house, foreign)
	if err != ErrDifferentOwners {
		t.Errorf("Expected ErrDifferentOwners, got %v", err)
	}
	if err.Error() != "Source and target units must belong to the same user." {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if err := ValidateTranslationEndpoints(house, haus); err != nil {
		t.Errorf("Expected valid endpoints, got %v", err)
	}
}
