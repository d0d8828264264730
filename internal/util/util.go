// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// OneLine collapses every run of whitespace, newlines included, into a single
// space and truncates the result to maxRunes.
func OneLine(text string, maxRunes int) string {
	return TruncateRunes(strings.Join(strings.Fields(text), " "), maxRunes)
}
