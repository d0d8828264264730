// internal/cli/root_test.go
package trocadilho

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mwiater/trocadilho/internal/logging"
)

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		_ = logging.Close()
		currentConfig = nil
		debugCSVPath = ""
	})

	resetUsage(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetUsage(cmd *cobra.Command) {
	cmd.SilenceUsage = false
	for _, child := range cmd.Commands() {
		resetUsage(child)
	}
}

// emptyConfig writes a config file that keeps every default.
func emptyConfig(t *testing.T, dir string) string {
	return writeFile(t, dir, "config.json", "{}")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// fakeOllama labels the phrase containing "pun" as the pun.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)

		var tuples []string
		for _, line := range strings.Split(payload.Prompt, "\n") {
			for _, prefix := range []string{"1. ", "2. "} {
				if phrase, ok := strings.CutPrefix(line, prefix); ok {
					label := "Não trocadilho"
					if strings.Contains(phrase, "pun") {
						label = "Trocadilho"
					}
					tuples = append(tuples, "("+phrase+", "+label+")")
				}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    payload.Model,
			"response": strings.Join(tuples, "\n"),
			"done":     true,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestShowConfigAppliesFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.json", `{"host":{"url":"http://example.test:11434/"},"model":"gemma3","shuffleSeed":7}`)

	out, err := runCLI(t, "show", "config", "-c", cfgPath, "--logFile", filepath.Join(dir, "t.log"), "--model", "qwen3")
	if err != nil {
		t.Fatalf("show config returned error: %v\n%s", err, out)
	}
	for _, want := range []string{cfgPath, "qwen3", "http://example.test:11434", "7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if cfg := GetConfig(); cfg == nil || cfg.Model != "qwen3" || cfg.ShuffleSeed != 7 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestInvalidConfigIsRejected(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.json", `{"host":{"url":"ftp://nope"},"model":""}`)

	if _, err := runCLI(t, "show", "config", "-c", cfgPath, "--logFile", filepath.Join(dir, "t.log")); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestWrongArgumentCount(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "classify", "pairs", "only-one.csv", "-c", emptyConfig(t, dir), "--logFile", filepath.Join(dir, "t.log"))
	if err == nil {
		t.Fatal("expected argument count error")
	}
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("expected usage in output:\n%s", out)
	}
}

func TestDatasetCheckReportsOrphans(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", "id,text\n1.H,a\n1.N,b\n2.H,c\nbad,d\n")

	out, err := runCLI(t, "dataset", "check", data, "-c", emptyConfig(t, dir), "--logFile", filepath.Join(dir, "t.log"))
	if !errors.Is(err, errPairsIncomplete) {
		t.Fatalf("expected errPairsIncomplete, got %v", err)
	}
	if !strings.Contains(out, "2.H (missing 2.N)") || !strings.Contains(out, `"bad"`) {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestClassifyPairsThenMetrics(t *testing.T) {
	server := fakeOllama(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "t.log")
	cfgPath := emptyConfig(t, dir)
	data := writeFile(t, dir, "pairs.csv", "id,text\n1.H,a pun one\n1.N,plain one\n2.H,a pun two\n2.N,plain two\n3.H,orphan\n")
	promptPath := writeFile(t, dir, "prompt.txt", "Qual frase é o trocadilho?")
	dbPath := filepath.Join(dir, "results.db")

	out, err := runCLI(t, "classify", "pairs", data, promptPath, dbPath, "-c", cfgPath, "--logFile", logPath, "--host", server.URL)
	if err != nil {
		t.Fatalf("classify pairs returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Complete pairs found: 2") || !strings.Contains(out, "[2/2]") {
		t.Fatalf("unexpected classify output:\n%s", out)
	}

	out, err = runCLI(t, "classify", "pairs", data, promptPath, dbPath, "-c", cfgPath, "--logFile", logPath, "--host", server.URL)
	if err != nil {
		t.Fatalf("second classify returned error: %v\n%s", err, out)
	}
	if strings.Contains(out, "[1/") {
		t.Fatalf("second run must not resubmit items:\n%s", out)
	}

	metricsPath := filepath.Join(dir, "metrics.csv")
	debugPath := filepath.Join(dir, "debug.csv")
	out, err = runCLI(t, "metrics", "pairs", dbPath, metricsPath, "--debugCSV", debugPath, "-c", cfgPath, "--logFile", logPath)
	if err != nil {
		t.Fatalf("metrics pairs returned error: %v\n%s", err, out)
	}

	f, err := os.Open(metricsPath)
	if err != nil {
		t.Fatalf("open metrics: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	values := map[string]string{}
	for _, rec := range records[1:] {
		values[rec[0]] = rec[1]
	}
	if values["True Positives"] != "2" || values["True Negatives"] != "2" || values["Total Samples"] != "4" {
		t.Fatalf("unexpected metrics: %v", values)
	}
	if _, err := os.Stat(debugPath); err != nil {
		t.Fatalf("expected debug csv: %v", err)
	}
}

func TestMetricsMissingStore(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "metrics", "phrases", filepath.Join(dir, "missing.db"), filepath.Join(dir, "out.csv"), "-c", emptyConfig(t, dir), "--logFile", filepath.Join(dir, "t.log"))
	if err == nil {
		t.Fatal("expected error for missing store")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "missing.db")); !os.IsNotExist(statErr) {
		t.Fatal("metrics must not create a store")
	}
}
