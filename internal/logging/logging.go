// Package logging owns the process-wide zap logger: human-readable lines on
// stderr and JSON lines in the log file.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zap.NewNop()
)

// Init (re)builds the global logger. Console output goes to stderr at info
// level (debug when debug is set); when logPath is non-empty every entry is
// also appended to that file as JSON.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logger.Sync()
		_ = logFile.Close()
		logFile = nil
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zapcore.DebugLevel))
	}

	logger = zap.New(zapcore.NewTee(cores...))
	return nil
}

// Close flushes the logger and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.NewNop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// L returns the current logger.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LogEvent logs a formatted informational message.
func LogEvent(format string, args ...any) {
	L().Info(fmt.Sprintf(format, args...))
}

// LogRequest records traffic to and from the completion service at debug level.
func LogRequest(direction, host, model string, payload any) {
	L().Debug(buildRequestMessage(direction),
		zap.String("host", valueOrUnknown(host)),
		zap.String("model", valueOrUnknown(model)),
		zap.String("payload", formatPayload(payload)),
	)
}

func buildRequestMessage(direction string) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	if dir == "" {
		dir = "REQUEST"
	}
	return fmt.Sprintf("[%s]", dir)
}

func valueOrUnknown(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "unknown"
	}
	return v
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
