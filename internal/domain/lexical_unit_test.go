package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewLexicalUnit(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	unit, err := NewLexicalUnit(UnitKey{
		UserID:   userID,
		Lemma:    "  Record ",
		Language: "en",
	}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if unit.Lemma != "record" {
		t.Errorf("Expected canonical lemma, got %q", unit.Lemma)
	}
	if unit.LexicalCategory != CategorySingleWord {
		t.Errorf("Expected default category, got %s", unit.LexicalCategory)
	}
	if !unit.IsStub() {
		t.Error("Expected unit without part of speech to be a stub")
	}
	if unit.Validation != ValidationUnverified || unit.Status != LearningStatusLearning {
		t.Errorf("Unexpected default statuses: %s/%s", unit.Validation, unit.Status)
	}
	if unit.Key().UserID != userID {
		t.Error("Expected key to carry the owner")
	}
}

func TestLexicalUnitValidate(t *testing.T) {
	t.Parallel()

	base := func() *LexicalUnit {
		u, err := NewLexicalUnit(UnitKey{
			UserID:       uuid.New(),
			Lemma:        "run",
			Language:     "en",
			PartOfSpeech: POSVerb,
		}, "/rʌn/")
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		return u
	}

	tests := []struct {
		name    string
		mutate  func(u *LexicalUnit)
		wantErr error
	}{
		{"valid", func(u *LexicalUnit) {}, nil},
		{"empty id", func(u *LexicalUnit) { u.ID = uuid.Nil }, ErrEmptyUnitID},
		{"empty user", func(u *LexicalUnit) { u.UserID = uuid.Nil }, ErrEmptyUnitUserID},
		{"empty lemma", func(u *LexicalUnit) { u.Lemma = "" }, ErrEmptyLemma},
		{"bad language", func(u *LexicalUnit) { u.Language = "english" }, ErrInvalidLanguage},
		{"bad pos", func(u *LexicalUnit) { u.PartOfSpeech = "gerund" }, ErrInvalidPartOfSpeech},
		{"bad category", func(u *LexicalUnit) { u.LexicalCategory = "WORD" }, ErrInvalidCategory},
		{"bad validation", func(u *LexicalUnit) { u.Validation = "ok" }, ErrInvalidValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base()
			tt.mutate(u)
			err := u.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
