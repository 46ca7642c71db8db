package domain

import (
	"strings"
	"unicode"
)

// Canonicalize normalizes a lemma for comparison and storage: surrounding
// whitespace is removed, internal runs of whitespace collapse to one space
// and the result is lowercased. Empty input yields "".
//
// Every lemma lookup and write goes through this function.
func Canonicalize(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.ToLower(strings.Join(fields, " "))
}
