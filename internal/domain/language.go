package domain

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageCodePattern rejects shapes language.Parse tolerates, such as
// underscore separators.
var languageCodePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})*$`)

// ValidateLanguageCode checks that code is a well-formed BCP-47 tag whose
// subtags are known.
func ValidateLanguageCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: language code cannot be empty", ErrInvalidLanguage)
	}
	if !languageCodePattern.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	if _, err := language.Parse(code); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLanguage, code, err)
	}
	return nil
}

// PrimarySubtag returns the lowercased primary language subtag of code,
// e.g. "en" for "en-GB". Tags x/text cannot parse fall back to the text
// before the first hyphen.
func PrimarySubtag(code string) string {
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		return base.String()
	}
	primary, _, _ := strings.Cut(code, "-")
	return strings.ToLower(strings.TrimSpace(primary))
}

// SamePrimaryLanguage reports whether two codes share a primary subtag.
func SamePrimaryLanguage(a, b string) bool {
	return PrimarySubtag(a) == PrimarySubtag(b)
}

// DisplayLanguage returns an English name for code ("British English" for
// "en-GB"), or the code itself when it cannot be parsed. Used when rendering
// prompts.
func DisplayLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
