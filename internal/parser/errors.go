// internal/parser/errors.go
package parser

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure.
type Kind int

const (
	KindInsufficientTuples Kind = iota + 1
	KindMalformedTuple
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientTuples:
		return "insufficient tuples"
	case KindMalformedTuple:
		return "malformed tuple"
	case KindUnresolved:
		return "unresolved labels"
	default:
		return "unknown parse error"
	}
}

// ParseError reports why a reply could not be turned into a classification.
type ParseError struct {
	Kind  Kind
	Found int
	Want  int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindInsufficientTuples, KindMalformedTuple:
		return fmt.Sprintf("parse: %s: found %d usable of %d required", e.Kind, e.Found, e.Want)
	default:
		return "parse: " + e.Kind.String()
	}
}

// Is lets errors.Is match on Kind alone.
func (e *ParseError) Is(target error) bool {
	var t *ParseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInsufficientTuples = &ParseError{Kind: KindInsufficientTuples}
	ErrMalformedTuple     = &ParseError{Kind: KindMalformedTuple}
	ErrUnresolved         = &ParseError{Kind: KindUnresolved}
)
