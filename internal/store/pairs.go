// internal/store/pairs.go
package store

import (
	"context"
	"fmt"
	"time"
)

// PairResult is one row of the results_pairs table.
type PairResult struct {
	ID                    int64  `db:"id"`
	PairID                string `db:"pair_id"`
	PunPhraseGold         string `db:"pun_phrase_gold"`
	NonPunPhraseGold      string `db:"non_pun_phrase_gold"`
	FirstShown            string `db:"first_shown"`
	ModelInputPrompt      string `db:"model_input_prompt"`
	ModelResponseRaw      string `db:"model_response_raw"`
	PredictedPunPhrase    string `db:"predicted_pun_phrase"`
	PredictedNonPunPhrase string `db:"predicted_non_pun_phrase"`
	IsCorrect             bool   `db:"is_correct"`
	ErrorFlag             bool   `db:"error_flag"`
	FallbackFlag          bool   `db:"fallback_flag"`
	ParseError            string `db:"parse_error"`
	Model                 string `db:"model"`
	RunID                 string `db:"run_id"`
	LatencyMs             int64  `db:"latency_ms"`
	CreatedAt             string `db:"created_at"`
}

const insertPair = `INSERT INTO results_pairs (
	pair_id, pun_phrase_gold, non_pun_phrase_gold, first_shown, model_input_prompt,
	model_response_raw, predicted_pun_phrase, predicted_non_pun_phrase, is_correct,
	error_flag, fallback_flag, parse_error, model, run_id, latency_ms, created_at
) VALUES (
	:pair_id, :pun_phrase_gold, :non_pun_phrase_gold, :first_shown, :model_input_prompt,
	:model_response_raw, :predicted_pun_phrase, :predicted_non_pun_phrase, :is_correct,
	:error_flag, :fallback_flag, :parse_error, :model, :run_id, :latency_ms, :created_at
)`

// InsertPair appends r. CreatedAt is stamped when empty.
func (s *Store) InsertPair(ctx context.Context, r PairResult) error {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if _, err := s.db.NamedExecContext(ctx, insertPair, r); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.PairID)
		}
		return fmt.Errorf("insert pair %s: %w", r.PairID, err)
	}
	return nil
}

// ProcessedPairIDs returns the base ids already present in results_pairs.
func (s *Store) ProcessedPairIDs(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.idSet(ctx, `SELECT pair_id FROM results_pairs`)
	if err != nil {
		return nil, fmt.Errorf("list processed pairs: %w", err)
	}
	return ids, nil
}

// ListPairs returns every pair row ordered by insertion.
func (s *Store) ListPairs(ctx context.Context) ([]PairResult, error) {
	var rows []PairResult
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM results_pairs ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	return rows, nil
}
