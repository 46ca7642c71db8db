package domain

import (
	"errors"
	"testing"
)

func TestValidateLanguageCode(t *testing.T) {
	t.Parallel()

	valid := []string{"en", "en-GB", "pt-BR", "zh-Hant-TW", "yue"}
	for _, code := range valid {
		if err := ValidateLanguageCode(code); err != nil {
			t.Errorf("ValidateLanguageCode(%q) returned %v", code, err)
		}
	}

	invalid := []string{"", "e", "english", "en_GB", "en-", "12", "zz"}
	for _, code := range invalid {
		if err := ValidateLanguageCode(code); !errors.Is(err, ErrInvalidLanguage) {
			t.Errorf("ValidateLanguageCode(%q) = %v, want ErrInvalidLanguage", code, err)
		}
	}
}

func TestPrimarySubtag(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"en":    "en",
		"en-GB": "en",
		"EN-us": "en",
		"pt-BR": "pt",
		"de":    "de",
	}
	for in, want := range tests {
		if got := PrimarySubtag(in); got != want {
			t.Errorf("PrimarySubtag(%q) = %q, want %q", in, got, want)
		}
	}

	if !SamePrimaryLanguage("en-GB", "en-US") {
		t.Error("Expected en-GB and en-US to share a primary language")
	}
	if SamePrimaryLanguage("en", "de") {
		t.Error("Expected en and de to differ")
	}
}

func TestDisplayLanguage(t *testing.T) {
	t.Parallel()

	if got := DisplayLanguage("de"); got != "German" {
		t.Errorf("DisplayLanguage(de) = %q", got)
	}
	if got := DisplayLanguage("not a tag"); got != "not a tag" {
		t.Errorf("DisplayLanguage should echo unparseable codes, got %q", got)
	}
}
