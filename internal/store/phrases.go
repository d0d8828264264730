// internal/store/phrases.go
package store

import (
	"context"
	"fmt"
	"time"
)

// PhraseResult is one row of the results table.
type PhraseResult struct {
	ID               int64  `db:"id"`
	ItemID           string `db:"item_id"`
	OriginalText     string `db:"original_text"`
	CorrectLabel     string `db:"correct_label"`
	ModelInputPrompt string `db:"model_input_prompt"`
	ModelResponseRaw string `db:"model_response_raw"`
	ExtractedText    string `db:"extracted_text"`
	ExtractedLabel   string `db:"extracted_label"`
	NormalizedLabel  string `db:"normalized_label"`
	ErrorFlag        bool   `db:"error_flag"`
	ParseError       string `db:"parse_error"`
	Model            string `db:"model"`
	RunID            string `db:"run_id"`
	LatencyMs        int64  `db:"latency_ms"`
	CreatedAt        string `db:"created_at"`
}

const insertPhrase = `INSERT INTO results (
	item_id, original_text, correct_label, model_input_prompt, model_response_raw,
	extracted_text, extracted_label, normalized_label, error_flag, parse_error,
	model, run_id, latency_ms, created_at
) VALUES (
	:item_id, :original_text, :correct_label, :model_input_prompt, :model_response_raw,
	:extracted_text, :extracted_label, :normalized_label, :error_flag, :parse_error,
	:model, :run_id, :latency_ms, :created_at
)`

// InsertPhrase appends r. CreatedAt is stamped when empty.
func (s *Store) InsertPhrase(ctx context.Context, r PhraseResult) error {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if _, err := s.db.NamedExecContext(ctx, insertPhrase, r); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.ItemID)
		}
		return fmt.Errorf("insert phrase %s: %w", r.ItemID, err)
	}
	return nil
}

// ProcessedPhraseIDs returns the item ids already present in results.
func (s *Store) ProcessedPhraseIDs(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.idSet(ctx, `SELECT item_id FROM results`)
	if err != nil {
		return nil, fmt.Errorf("list processed phrases: %w", err)
	}
	return ids, nil
}

// ListPhrases returns every phrase row ordered by insertion.
func (s *Store) ListPhrases(ctx context.Context) ([]PhraseResult, error) {
	var rows []PhraseResult
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM results ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list phrases: %w", err)
	}
	return rows, nil
}
