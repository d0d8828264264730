// Package llamacpp provides a Completer backed by the llama.cpp server's
// native /completion endpoint.
package llamacpp

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

// Provider implements providers.Completer for llama.cpp servers.
type Provider struct {
	client  *http.Client
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type completionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Stop    bool   `json:"stop"`
	Timings struct {
		PromptN     int     `json:"prompt_n"`
		PromptMs    float64 `json:"prompt_ms"`
		PredictedN  int     `json:"predicted_n"`
		PredictedMs float64 `json:"predicted_ms"`
	} `json:"timings"`
}

// EnsureModelReady waits on /health; llama.cpp serves a single loaded model,
// so readiness of the server is readiness of the model.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host.URL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	logging.LogRequest("LLM->TROCADILHO", providers.HostIdentifier(host, "llama.cpp-host"), model, body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llama.cpp: /health returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

// Generate posts a single non-streaming request to /completion. The raw
// endpoint has no system role, so the system instruction is prepended.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	prompt := req.Prompt
	if system := strings.TrimSpace(req.System); system != "" {
		prompt = system + "\n\n" + prompt
	}

	payload := map[string]any{
		"prompt":      prompt,
		"temperature": req.Options.Temperature,
		"seed":        req.Options.Seed,
		"stream":      false,
	}
	if strings.TrimSpace(req.Model) != "" {
		payload["model"] = req.Model
	}
	if len(req.Options.Stop) > 0 {
		payload["stop"] = req.Options.Stop
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	hostID := providers.HostIdentifier(req.Host, "llama.cpp-host")
	logging.LogRequest("TROCADILHO->LLM", hostID, req.Model, body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Host.URL+"/completion", bytes.NewReader(body))
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	logging.LogRequest("LLM->TROCADILHO", hostID, req.Model, raw)

	if resp.StatusCode != http.StatusOK {
		return providers.GenerateResponse{}, fmt.Errorf("llama.cpp: /completion returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return providers.GenerateResponse{}, fmt.Errorf("llama.cpp: decode /completion response: %w", err)
	}

	modelName := parsed.Model
	if modelName == "" {
		modelName = req.Model
	}
	total := time.Duration((parsed.Timings.PromptMs + parsed.Timings.PredictedMs) * float64(time.Millisecond))
	return providers.GenerateResponse{
		Model:           modelName,
		Text:            strings.TrimSpace(parsed.Content),
		Done:            parsed.Stop,
		TotalDuration:   total,
		PromptEvalCount: parsed.Timings.PromptN,
		EvalCount:       parsed.Timings.PredictedN,
	}, nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
