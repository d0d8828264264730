// internal/pipeline/pipeline.go

// Package pipeline drives dataset items one at a time through prompt
// composition, completion, parsing and storage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mwiater/trocadilho/internal/appconfig"
	"github.com/mwiater/trocadilho/internal/logging"
	"github.com/mwiater/trocadilho/internal/prompt"
	"github.com/mwiater/trocadilho/internal/providers"
	"github.com/mwiater/trocadilho/internal/store"
)

// ErrTransport wraps failures talking to the completion service.
var ErrTransport = errors.New("completion transport failure")

// Store is the subset of the result store the pipeline needs.
type Store interface {
	ProcessedPhraseIDs(ctx context.Context) (map[string]struct{}, error)
	InsertPhrase(ctx context.Context, r store.PhraseResult) error
	ProcessedPairIDs(ctx context.Context) (map[string]struct{}, error)
	InsertPair(ctx context.Context, r store.PairResult) error
}

// Runner executes one classification run. It is not safe for concurrent use.
type Runner struct {
	cfg       *appconfig.Config
	completer providers.Completer
	store     Store
	composer  *prompt.Composer
	progress  *progressPrinter
	runID     string
	now       func() time.Time
}

// New builds a Runner. Progress lines are written to out.
func New(cfg *appconfig.Config, completer providers.Completer, st Store, composer *prompt.Composer, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		cfg:       cfg,
		completer: completer,
		store:     st,
		composer:  composer,
		progress:  newProgressPrinter(out),
		runID:     uuid.NewString(),
		now:       time.Now,
	}
}

// RunID identifies the rows written by this runner.
func (r *Runner) RunID() string { return r.runID }

// itemStatus is the terminal state of one attempted item.
type itemStatus int

const (
	statusStored itemStatus = iota
	statusParseError
	statusTransportSkipped
	statusDuplicate
)

func (r *Runner) warmUp(ctx context.Context) error {
	logging.LogEvent("ensuring model %s is ready on %s", r.cfg.Model, r.cfg.HostName())
	if err := r.completer.EnsureModelReady(ctx, r.cfg.Host, r.cfg.Model); err != nil {
		return fmt.Errorf("%w: model %s on %s not ready: %w", ErrTransport, r.cfg.Model, r.cfg.HostName(), err)
	}
	return nil
}

// complete sends one prompt. The returned latency covers the round trip.
func (r *Runner) complete(ctx context.Context, system, text string) (providers.GenerateResponse, time.Duration, error) {
	start := r.now()
	resp, err := r.completer.Generate(ctx, providers.GenerateRequest{
		Host:    r.cfg.Host,
		Model:   r.cfg.Model,
		System:  system,
		Prompt:  text,
		Options: r.cfg.Options,
	})
	return resp, r.now().Sub(start), err
}

// handleTransport decides whether a completion failure ends the run. A nil
// return means the item is skipped and the loop continues.
func (r *Runner) handleTransport(ctx context.Context, id string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	wrapped := fmt.Errorf("%w: %s: %w", ErrTransport, id, err)
	if r.cfg.FailFast {
		return wrapped
	}
	logging.L().Warn("item skipped after transport error", zap.String("item", id), zap.Error(err))
	return nil
}

// handleInsert maps a store failure to the item status or a fatal error.
func handleInsert(id string, err error) (itemStatus, error) {
	if errors.Is(err, store.ErrDuplicate) {
		logging.L().Warn("item already stored by another run", zap.String("item", id))
		return statusDuplicate, nil
	}
	return 0, err
}
