package tokenize

import (
	"regexp"
	"strings"
)

// Word characters are letters, digits and underscore. Hyphens, apostrophes and all other
// punctuation split tokens and are dropped.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lower-cases text and returns every maximal run of word characters in order.
//
// Lower-casing uses Go's per-rune simple case mapping, which is not context sensitive:
// "İstanbul" becomes the single token "istanbul" and a word-final capital sigma maps to
// "σ" rather than "ς". Marker counts are unaffected since every lexicon entry is ASCII,
// but total and unique counts over such text can differ from full Unicode lower-casing.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Join concatenates text fields with a single space, the way corpus fields are combined
// before tokenizing.
func Join(fields ...string) string {
	return strings.Join(fields, " ")
}
