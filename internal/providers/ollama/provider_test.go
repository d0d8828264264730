// internal/providers/ollama/provider_test.go
package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/trocadilho/internal/appconfig"
	"github.com/mwiater/trocadilho/internal/providers"
)

// TestProviderGenerateSendsDeterministicOptions verifies the request payload
// and that the reply is trimmed.
func TestProviderGenerateSendsDeterministicOptions(t *testing.T) {
	t.Parallel()

	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		bodies <- body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","response":"  (Frase, Trocadilho)\n","done":true,"total_duration":2000000,"prompt_eval_count":12,"eval_count":7}`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	resp, err := provider.Generate(context.Background(), providers.GenerateRequest{
		Host:    appconfig.Host{Name: "test", URL: server.URL},
		Model:   "llama3",
		System:  "sys",
		Prompt:  "classifique",
		Options: appconfig.Options{Temperature: 0, Seed: 42, Stop: []string{"\n\n"}},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if resp.Text != "(Frase, Trocadilho)" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Model != "llama3" || !resp.Done || resp.EvalCount != 7 || resp.PromptEvalCount != 12 {
		t.Fatalf("unexpected response metadata: %+v", resp)
	}
	if resp.TotalDuration != 2*time.Millisecond {
		t.Fatalf("unexpected duration %v", resp.TotalDuration)
	}

	var payload map[string]any
	if err := json.Unmarshal(<-bodies, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if stream, ok := payload["stream"].(bool); !ok || stream {
		t.Fatalf("expected stream=false, got %v", payload["stream"])
	}
	if payload["system"] != "sys" || payload["prompt"] != "classifique" || payload["model"] != "llama3" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	options, ok := payload["options"].(map[string]any)
	if !ok {
		t.Fatalf("expected options map, got %T", payload["options"])
	}
	if options["temperature"] != float64(0) || options["seed"] != float64(42) {
		t.Fatalf("unexpected options: %v", options)
	}
	stop, ok := options["stop"].([]any)
	if !ok || len(stop) != 1 || stop[0] != "\n\n" {
		t.Fatalf("unexpected stop: %v", options["stop"])
	}
}

func TestProviderGenerateOmitsEmptySystemAndStop(t *testing.T) {
	t.Parallel()

	payloads := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		payloads <- payload
		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	resp, err := provider.Generate(context.Background(), providers.GenerateRequest{
		Host:   appconfig.Host{URL: server.URL},
		Model:  "fallback-model",
		Prompt: "p",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	payload := <-payloads
	if resp.Model != "fallback-model" {
		t.Fatalf("expected request model as fallback, got %q", resp.Model)
	}
	if _, ok := payload["system"]; ok {
		t.Fatalf("expected no system field, got %v", payload["system"])
	}
	if options := payload["options"].(map[string]any); options["stop"] != nil {
		t.Fatalf("expected no stop option, got %v", options["stop"])
	}
}

func TestProviderGenerateNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	_, err := provider.Generate(context.Background(), providers.GenerateRequest{
		Host:  appconfig.Host{URL: server.URL},
		Model: "nope",
	})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProviderGenerateInvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	if _, err := provider.Generate(context.Background(), providers.GenerateRequest{Host: appconfig.Host{URL: server.URL}}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEnsureModelReady(t *testing.T) {
	t.Parallel()

	models := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		model, _ := payload["model"].(string)
		models <- model
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	if err := provider.EnsureModelReady(context.Background(), appconfig.Host{URL: server.URL}, "llama3"); err != nil {
		t.Fatalf("EnsureModelReady error: %v", err)
	}
	if model := <-models; model != "llama3" {
		t.Fatalf("expected model llama3 in warm-up payload, got %q", model)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}
