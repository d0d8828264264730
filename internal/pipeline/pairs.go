// internal/pipeline/pairs.go
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mwiater/trocadilho/internal/dataset"
	"github.com/mwiater/trocadilho/internal/logging"
	"github.com/mwiater/trocadilho/internal/parser"
	"github.com/mwiater/trocadilho/internal/store"
)

// RunPairs classifies every pair not yet present in the store.
func (r *Runner) RunPairs(ctx context.Context, pairs []dataset.Pair) (Summary, error) {
	summary := Summary{Mode: "pairs", RunID: r.runID, Total: len(pairs)}

	processed, err := r.store.ProcessedPairIDs(ctx)
	if err != nil {
		return summary, err
	}
	var pending []dataset.Pair
	for _, pair := range pairs {
		if _, done := processed[pair.ID]; done {
			summary.AlreadyProcessed++
			continue
		}
		pending = append(pending, pair)
	}
	summary.ToProcess = len(pending)
	logging.L().Info("pair run planned",
		zap.String("run_id", r.runID),
		zap.Int("total", summary.Total),
		zap.Int("already_processed", summary.AlreadyProcessed),
		zap.Int("to_process", summary.ToProcess))

	if len(pending) == 0 {
		return summary, nil
	}
	if err := r.warmUp(ctx); err != nil {
		return summary, err
	}

	for i, pair := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		status, outcome, err := r.runPair(ctx, pair)
		if err != nil {
			return summary, err
		}
		summary.record(status, outcome.correct)
		if outcome.fallback {
			summary.Fallbacks++
		}
		r.progress.item(i+1, len(pending), pair.ID, status)
	}
	return summary, nil
}

type pairOutcome struct {
	correct  bool
	fallback bool
}

func (r *Runner) runPair(ctx context.Context, pair dataset.Pair) (itemStatus, pairOutcome, error) {
	text, shown := r.composer.ComposePair(pair.Pun, pair.NonPun)

	resp, latency, err := r.complete(ctx, r.cfg.PairSystemPrompt, text)
	if err != nil {
		if fatal := r.handleTransport(ctx, pair.ID, err); fatal != nil {
			return 0, pairOutcome{}, fatal
		}
		return statusTransportSkipped, pairOutcome{}, nil
	}

	result := store.PairResult{
		PairID:           pair.ID,
		PunPhraseGold:    pair.Pun,
		NonPunPhraseGold: pair.NonPun,
		FirstShown:       shown,
		ModelInputPrompt: text,
		ModelResponseRaw: resp.Text,
		Model:            resp.Model,
		RunID:            r.runID,
		LatencyMs:        latency.Milliseconds(),
	}
	status := statusStored

	parsed, perr := parser.ParsePair(resp.Text)
	if perr != nil {
		logging.L().Info("reply could not be parsed", zap.String("pair", pair.ID), zap.Error(perr))
		result.ErrorFlag = true
		result.ParseError = perr.Error()
		status = statusParseError
	} else {
		result.PredictedPunPhrase = parsed.PunPhrase
		result.PredictedNonPunPhrase = parsed.NonPunPhrase
		result.FallbackFlag = parsed.Fallback
		result.IsCorrect = parser.ScorePun(parsed.PunPhrase, pair.Pun)
		if parsed.Fallback {
			logging.L().Warn("labels resolved by position", zap.String("pair", pair.ID))
		}
	}

	if err := r.store.InsertPair(ctx, result); err != nil {
		s, ferr := handleInsert(pair.ID, err)
		if ferr != nil {
			return 0, pairOutcome{}, fmt.Errorf("store pair %s: %w", pair.ID, ferr)
		}
		return s, pairOutcome{}, nil
	}
	return status, pairOutcome{correct: result.IsCorrect, fallback: result.FallbackFlag}, nil
}
