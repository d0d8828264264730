// internal/parser/score.go
package parser

import (
	"strings"
	"unicode/utf8"
)

const minSubstringRunes = 4

// NormalizePhrase prepares a phrase for comparison: lower case, no
// surrounding whitespace, quotes or periods.
func NormalizePhrase(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.Trim(s, `'"`)
	s = strings.Trim(s, ".")
	return strings.TrimSpace(s)
}

// ScorePun reports whether predicted matches gold after normalization. A
// prediction longer than four characters that appears inside gold also
// counts, which covers replies that truncate the phrase.
func ScorePun(predicted, gold string) bool {
	p, g := NormalizePhrase(predicted), NormalizePhrase(gold)
	if p == "" {
		return false
	}
	if p == g {
		return true
	}
	return utf8.RuneCountInString(p) > minSubstringRunes && strings.Contains(g, p)
}
