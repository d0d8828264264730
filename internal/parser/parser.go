// internal/parser/parser.go

// Package parser turns a model's free-text reply into (phrase, label)
// assertions and scores them against the gold phrases.
package parser

import "strings"

// Tuple is one (phrase, label) assertion taken from a reply.
type Tuple struct {
	Phrase   string
	RawLabel string
	Label    Label
}

// PairResult is the outcome of parsing a reply to a pair prompt.
type PairResult struct {
	PunPhrase    string
	NonPunPhrase string
	// Fallback is set when at least one slot was filled by position rather
	// than by its label.
	Fallback bool
	Tuples   []Tuple
}

// ExtractTuples returns the contents of every top-level parenthesised group
// in order. Nested parentheses stay inside their group, a ')' with no open
// group is skipped and a group left open at the end is discarded.
func ExtractTuples(text string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range text {
		switch r {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, text[start:i])
			}
		}
	}
	return out
}

// SplitTuple splits content on its last comma. ok is false when there is no
// comma.
func SplitTuple(content string) (Tuple, bool) {
	idx := strings.LastIndex(content, ",")
	if idx < 0 {
		return Tuple{}, false
	}
	phrase := clean(content[:idx])
	raw := clean(content[idx+1:])
	return Tuple{Phrase: phrase, RawLabel: raw, Label: NormalizeLabel(raw)}, true
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
}

// tuples picks want well-formed tuples of text, in reply order. When the
// reply has more than want, tuples whose label names a class are preferred,
// so an aside such as "(em ordem, conforme pedido)" does not take a slot.
func tuples(text string, want int) ([]Tuple, error) {
	raw := ExtractTuples(text)
	valid := make([]Tuple, 0, len(raw))
	for _, content := range raw {
		if t, ok := SplitTuple(content); ok {
			valid = append(valid, t)
		}
	}
	if len(valid) < want {
		if len(raw) >= want {
			return nil, &ParseError{Kind: KindMalformedTuple, Found: len(valid), Want: want}
		}
		return nil, &ParseError{Kind: KindInsufficientTuples, Found: len(valid), Want: want}
	}
	if len(valid) == want {
		return valid, nil
	}

	keep := make([]bool, len(valid))
	picked := 0
	for i, t := range valid {
		if picked < want && ClassifyLabel(t.RawLabel) != Unknown {
			keep[i] = true
			picked++
		}
	}
	for i := range valid {
		if picked < want && !keep[i] {
			keep[i] = true
			picked++
		}
	}
	out := make([]Tuple, 0, want)
	for i, t := range valid {
		if keep[i] {
			out = append(out, t)
		}
	}
	return out, nil
}

// ParseSingle reads one well-formed tuple of a single-phrase reply.
func ParseSingle(text string) (Tuple, error) {
	ts, err := tuples(text, 1)
	if err != nil {
		return Tuple{}, err
	}
	return ts[0], nil
}

// ParsePair reads two well-formed tuples of a pair reply and
// decides which phrase the model called a pun.
func ParsePair(text string) (PairResult, error) {
	ts, err := tuples(text, 2)
	if err != nil {
		return PairResult{}, err
	}
	first, second := ts[0], ts[1]
	res := PairResult{Tuples: ts}

	switch {
	case first.Label == Unknown && second.Label == Unknown:
		return PairResult{}, &ParseError{Kind: KindUnresolved, Found: 2, Want: 2}

	case first.Label == Pun && second.Label == NonPun:
		res.PunPhrase, res.NonPunPhrase = first.Phrase, second.Phrase

	case first.Label == NonPun && second.Label == Pun:
		res.PunPhrase, res.NonPunPhrase = second.Phrase, first.Phrase

	case first.Label == second.Label:
		res.PunPhrase, res.NonPunPhrase = first.Phrase, second.Phrase
		res.Fallback = true

	default:
		// One side resolved; it keeps its slot and the other fills the rest.
		resolved, other := first, second
		if first.Label == Unknown {
			resolved, other = second, first
		}
		if resolved.Label == Pun {
			res.PunPhrase, res.NonPunPhrase = resolved.Phrase, other.Phrase
		} else {
			res.PunPhrase, res.NonPunPhrase = other.Phrase, resolved.Phrase
		}
		res.Fallback = true
	}
	return res, nil
}
