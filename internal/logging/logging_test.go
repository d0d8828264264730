package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "trocadilho.log")

	if err := Init(logPath, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogRequest("out", "local", "llama3", map[string]any{"ok": true})
	L().Info("structured", zap.Int("items", 3))
	if err := Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"hello world", `"items":3`, `"host":"local"`, `[OUT]`, `{\"ok\":true}`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected log to contain %q, got: %s", want, content)
		}
	}
}

func TestDebugRequestsSkippedAtInfoLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "info.log")
	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	LogRequest("in", "local", "llama3", "reply")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	// The file core always records debug entries; only the console is level-gated.
	if !strings.Contains(string(data), "reply") {
		t.Fatalf("expected file log to keep debug entries, got: %s", data)
	}
}

func TestBuildRequestMessageDefaults(t *testing.T) {
	if msg := buildRequestMessage(" in "); msg != "[IN]" {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if msg := buildRequestMessage(""); msg != "[REQUEST]" {
		t.Fatalf("expected default direction, got: %s", msg)
	}
	if v := valueOrUnknown("  "); v != "unknown" {
		t.Fatalf("expected unknown, got %q", v)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
	if got := formatPayload(map[string]int{"n": 1}); got != `{"n":1}` {
		t.Fatalf("map payload: %s", got)
	}
}

func TestLoggerIsNopBeforeInit(t *testing.T) {
	_ = Close()
	LogEvent("dropped")
	if L() == nil {
		t.Fatal("expected a non-nil logger")
	}
}
