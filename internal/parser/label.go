// internal/parser/label.go
package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Label is the normalized class a model assigned to a phrase.
type Label int

const (
	// Unknown means the label text could not be resolved.
	Unknown Label = iota
	Pun
	NonPun
)

func (l Label) String() string {
	switch l {
	case Pun:
		return "pun"
	case NonPun:
		return "non-pun"
	default:
		return "unknown"
	}
}

var (
	negationMarkers = []string{"nao", "non"}
	punMarkers      = []string{"trocadilho", "pun"}
	labelQuotes     = strings.NewReplacer(`'`, "", `"`, "")
)

// Fold lower-cases s and strips combining marks, so "Não" becomes "nao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// NormalizeLabel maps free label text to a class. Any negation marker wins;
// any other non-empty text counts as a pun.
func NormalizeLabel(raw string) Label {
	folded := strings.TrimSpace(Fold(raw))
	if folded == "" {
		return Unknown
	}
	for _, marker := range negationMarkers {
		if strings.Contains(folded, marker) {
			return NonPun
		}
	}
	return Pun
}

// ClassifyLabel is the strict form of NormalizeLabel used for stored labels:
// text must carry a negation marker or a pun keyword, otherwise it is Unknown.
// "Sim" normalizes to Pun for reconciliation but classifies as Unknown.
func ClassifyLabel(raw string) Label {
	folded := strings.TrimSpace(Fold(labelQuotes.Replace(raw)))
	if folded == "" {
		return Unknown
	}
	for _, marker := range negationMarkers {
		if strings.Contains(folded, marker) {
			return NonPun
		}
	}
	for _, marker := range punMarkers {
		if strings.Contains(folded, marker) {
			return Pun
		}
	}
	return Unknown
}
