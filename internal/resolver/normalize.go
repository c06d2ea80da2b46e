package resolver

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and drops every rune that is not a letter, digit,
// underscore or whitespace. Letters from any script are kept.
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsNumber(r), r == '_', unicode.IsSpace(r):
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, text)
}
