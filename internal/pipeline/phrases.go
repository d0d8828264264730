// internal/pipeline/phrases.go
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

// RunPhrases classifies every row not yet present in the store.
func (r *Runner) RunPhrases(ctx context.Context, rows []dataset.Row) (Summary, error) {
	summary := Summary{Mode: "phrases", RunID: r.runID, Total: len(rows)}

	processed, err := r.store.ProcessedPhraseIDs(ctx)
	if err != nil {
		return summary, err
	}
	queued := make(map[string]struct{}, len(rows))
	var pending []dataset.Row
	for _, row := range rows {
		key := row.Key()
		if _, done := processed[key]; done {
			summary.AlreadyProcessed++
			continue
		}
		if _, dup := queued[key]; dup {
			summary.DuplicateInput++
			continue
		}
		queued[key] = struct{}{}
		pending = append(pending, row)
	}
	summary.ToProcess = len(pending)
	logging.L().Info("phrase run planned",
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

	for i, row := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		status, err := r.runPhrase(ctx, row)
		if err != nil {
			return summary, err
		}
		summary.record(status, false)
		r.progress.item(i+1, len(pending), row.Key(), status)
	}
	return summary, nil
}

func (r *Runner) runPhrase(ctx context.Context, row dataset.Row) (itemStatus, error) {
	key := row.Key()
	text := r.composer.ComposePhrase(row.Text)

	resp, latency, err := r.complete(ctx, r.cfg.SystemPrompt, text)
	if err != nil {
		if fatal := r.handleTransport(ctx, key, err); fatal != nil {
			return 0, fatal
		}
		return statusTransportSkipped, nil
	}

	result := store.PhraseResult{
		ItemID:           key,
		OriginalText:     row.Text,
		CorrectLabel:     row.Label,
		ModelInputPrompt: text,
		ModelResponseRaw: resp.Text,
		Model:            resp.Model,
		RunID:            r.runID,
		LatencyMs:        latency.Milliseconds(),
	}
	status := statusStored

	tuple, perr := parser.ParseSingle(resp.Text)
	if perr != nil {
		logging.L().Info("reply could not be parsed", zap.String("item", key), zap.Error(perr))
		result.ExtractedText = store.ParseErrorSentinel
		result.ExtractedLabel = store.ParseErrorSentinel
		result.ErrorFlag = true
		result.ParseError = perr.Error()
		status = statusParseError
	} else {
		result.ExtractedText = tuple.Phrase
		result.ExtractedLabel = tuple.RawLabel
		result.NormalizedLabel = parser.ClassifyLabel(tuple.RawLabel).String()
	}

	if err := r.store.InsertPhrase(ctx, result); err != nil {
		s, ferr := handleInsert(key, err)
		if ferr != nil {
			return 0, fmt.Errorf("store phrase %s: %w", key, ferr)
		}
		return s, nil
	}
	return status, nil
}
