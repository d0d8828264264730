// internal/providers/provider.go

// Package providers defines the interface for talking to a text-completion
// service. The service is treated as a black box: one prompt in, one reply out,
// no streaming.
package providers

import (
	"context"
	"time"

	"github.com/mwiater/trocadilho/internal/appconfig"
)

// GenerateRequest encapsulates everything needed for a single completion.
type GenerateRequest struct {
	Host    appconfig.Host
	Model   string
	System  string
	Prompt  string
	Options appconfig.Options
}

// GenerateResponse is the reply text plus whatever timing data the service reported.
type GenerateResponse struct {
	Model           string
	Text            string
	Done            bool
	TotalDuration   time.Duration
	PromptEvalCount int
	EvalCount       int
}

// Completer is the interface every completion backend implements.
type Completer interface {
	// EnsureModelReady checks that the host answers and that the model can be used.
	EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error
	// Generate sends one prompt and blocks until the full reply is available.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	// Close cleans up any resources used by the provider.
	Close() error
}

// HostIdentifier returns a short label for host used in logs.
func HostIdentifier(host appconfig.Host, fallback string) string {
	if host.Name != "" {
		return host.Name
	}
	if host.URL != "" {
		return host.URL
	}
	return fallback
}
