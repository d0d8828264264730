// internal/providers/ollama/provider.go
// Package ollama provides a Completer backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/trocadilho/internal/appconfig"
	"github.com/mwiater/trocadilho/internal/logging"
	"github.com/mwiater/trocadilho/internal/providers"
)

// Provider implements the providers.Completer interface using Ollama HTTP APIs.
type Provider struct {
	client  *http.Client
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

type generateResponse struct {
	Model              string `json:"model"`
	Response           string `json:"response"`
	Done               bool   `json:"done"`
	TotalDuration      int64  `json:"total_duration"`
	LoadDuration       int64  `json:"load_duration"`
	PromptEvalCount    int    `json:"prompt_eval_count"`
	PromptEvalDuration int64  `json:"prompt_eval_duration"`
	EvalCount          int    `json:"eval_count"`
	EvalDuration       int64  `json:"eval_duration"`
}

// EnsureModelReady triggers a lightweight generate request to make sure the model is loaded.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	body, err := json.Marshal(map[string]any{"model": model})
	if err != nil {
		return err
	}
	_, err = p.post(ctx, host, model, body)
	return err
}

// Generate posts a single non-streaming request to /api/generate.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	payload := map[string]any{
		"model":   req.Model,
		"prompt":  req.Prompt,
		"options": buildOptions(req.Options),
		"stream":  false,
	}
	if strings.TrimSpace(req.System) != "" {
		payload["system"] = req.System
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.GenerateResponse{}, err
	}

	respBody, err := p.post(ctx, req.Host, req.Model, body)
	if err != nil {
		return providers.GenerateResponse{}, err
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return providers.GenerateResponse{}, fmt.Errorf("ollama: decode /api/generate response: %w", err)
	}

	modelName := result.Model
	if modelName == "" {
		modelName = req.Model
	}
	return providers.GenerateResponse{
		Model:           modelName,
		Text:            strings.TrimSpace(result.Response),
		Done:            result.Done,
		TotalDuration:   time.Duration(result.TotalDuration),
		PromptEvalCount: result.PromptEvalCount,
		EvalCount:       result.EvalCount,
	}, nil
}

func (p *Provider) post(ctx context.Context, host appconfig.Host, model string, body []byte) ([]byte, error) {
	hostID := providers.HostIdentifier(host, "ollama-host")
	logging.LogRequest("TROCADILHO->LLM", hostID, model, body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, host.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("LLM->TROCADILHO", hostID, model, respBody)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: /api/generate returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}

func buildOptions(opts appconfig.Options) map[string]any {
	options := map[string]any{
		"temperature": opts.Temperature,
		"seed":        opts.Seed,
	}
	if len(opts.Stop) > 0 {
		options["stop"] = opts.Stop
	}
	return options
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
