// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"
	"strings"

	"github.com/mwiater/trocadilho/internal/appconfig"
	"github.com/mwiater/trocadilho/internal/logging"
	"github.com/mwiater/trocadilho/internal/providers"
	"github.com/mwiater/trocadilho/internal/providers/llamacpp"
	"github.com/mwiater/trocadilho/internal/providers/ollama"
)

// NewCompleter selects and configures the completion backend for the
// configured host type.
func NewCompleter(cfg *appconfig.Config) (providers.Completer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	hostType, err := normalizeHostType(cfg.Host.Type)
	if err != nil {
		return nil, err
	}

	switch hostType {
	case appconfig.HostTypeLlamaCpp:
		logging.LogEvent("llama.cpp provider selected for %s", cfg.Host.URL)
		return llamacpp.New(cfg), nil
	default:
		logging.LogEvent("ollama provider selected for %s", cfg.Host.URL)
		return ollama.New(cfg), nil
	}
}

func normalizeHostType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", appconfig.HostTypeOllama:
		return appconfig.HostTypeOllama, nil
	case "llamacpp", "llama-cpp", appconfig.HostTypeLlamaCpp:
		return appconfig.HostTypeLlamaCpp, nil
	default:
		return "", fmt.Errorf("unsupported host type %q", raw)
	}
}
