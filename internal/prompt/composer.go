// internal/prompt/composer.go

// Package prompt builds the text sent to the completion service from an
// instruction template and the item under classification.
package prompt

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// Shown values record which variant of a pair was listed first.
const (
	ShownPun    = "pun"
	ShownNonPun = "non"
)

// Composer renders prompts. The pair ordering draws from its own seeded
// source, so two composers with the same seed produce the same sequence.
type Composer struct {
	template string
	rng      *rand.Rand
}

// NewComposer returns a Composer for template whose shuffle is seeded with seed.
func NewComposer(template string, seed int64) *Composer {
	s := uint64(seed)
	return &Composer{
		template: template,
		rng:      rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
	}
}

// LoadTemplate reads an instruction template file. Empty templates are
// rejected.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("prompt template %s is empty", path)
	}
	return string(data), nil
}

// ComposePhrase appends a single phrase to the template.
func (c *Composer) ComposePhrase(text string) string {
	return c.template + "\n" + text
}

// ComposePair lists both phrases in random order under the template and
// reports which one came first.
func (c *Composer) ComposePair(pun, nonPun string) (string, string) {
	first, second, shown := pun, nonPun, ShownPun
	if c.rng.IntN(2) == 1 {
		first, second, shown = nonPun, pun, ShownNonPun
	}
	return fmt.Sprintf("%s\n\nFrases:\n1. %s\n2. %s", c.template, first, second), shown
}
