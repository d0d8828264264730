// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultHostURL points at a local Ollama server.
	DefaultHostURL = "http://localhost:11434"
	// DefaultModel is the model used when the config does not name one.
	DefaultModel = "llama3"
	// DefaultSeed is used both for generation and for phrase-order shuffling.
	DefaultSeed = 42
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultLogFile is where the JSON log is written when no path is configured.
	defaultLogFile = "trocadilho.log"
)

const (
	// HostTypeOllama selects the Ollama /api/generate provider.
	HostTypeOllama = "ollama"
	// HostTypeLlamaCpp selects the llama.cpp server /completion provider.
	HostTypeLlamaCpp = "llama.cpp"
)

// DefaultPhraseSystemPrompt is sent with every single-phrase classification request.
const DefaultPhraseSystemPrompt = "Responda APENAS com a tupla solicitada. Não inclua nenhum outro texto."

// DefaultPairSystemPrompt is sent with every pair classification request.
const DefaultPairSystemPrompt = `Siga estritamente este formato de resposta, sem adicionar texto extra:
(Texto da frase, Classificação)
(Texto da frase, Classificação)`

// Config represents the top-level application configuration.
type Config struct {
	Host             Host    `mapstructure:"host" json:"host"`
	Model            string  `mapstructure:"model" json:"model"`
	SystemPrompt     string  `mapstructure:"systemPrompt" json:"systemPrompt"`
	PairSystemPrompt string  `mapstructure:"pairSystemPrompt" json:"pairSystemPrompt"`
	Options          Options `mapstructure:"options" json:"options"`
	ShuffleSeed      int64   `mapstructure:"shuffleSeed" json:"shuffleSeed"`
	TimeoutSeconds   int     `mapstructure:"timeout" json:"timeout,omitempty"`
	FailFast         bool    `mapstructure:"failFast" json:"failFast"`
	Debug            bool    `mapstructure:"debug" json:"debug"`
	LogFile          string  `mapstructure:"logFile" json:"logFile,omitempty"`
	ConfigPath       string  `mapstructure:"-" json:"-"`
}

// Host represents the server that serves the language model.
type Host struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
	Type string `mapstructure:"type" json:"type"`
}

// Options are the generation options sent with every completion request.
// Temperature 0 and a fixed seed are what make runs reproducible.
type Options struct {
	Temperature float64  `mapstructure:"temperature" json:"temperature"`
	Seed        int64    `mapstructure:"seed" json:"seed"`
	Stop        []string `mapstructure:"stop" json:"stop,omitempty"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// HostType returns the normalized provider type for the configured host.
func (c Config) HostType() string {
	switch strings.ToLower(strings.TrimSpace(c.Host.Type)) {
	case "llama.cpp", "llamacpp", "llama-cpp":
		return HostTypeLlamaCpp
	default:
		return HostTypeOllama
	}
}

// HostName returns a display name for the host, defaulting to its URL.
func (c Config) HostName() string {
	if name := strings.TrimSpace(c.Host.Name); name != "" {
		return name
	}
	return c.Host.URL
}

// SetDefaults registers every configuration default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host.name", "local")
	v.SetDefault("host.url", DefaultHostURL)
	v.SetDefault("host.type", HostTypeOllama)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("systemPrompt", DefaultPhraseSystemPrompt)
	v.SetDefault("pairSystemPrompt", DefaultPairSystemPrompt)
	v.SetDefault("options.temperature", 0.0)
	v.SetDefault("options.seed", DefaultSeed)
	v.SetDefault("options.stop", []string{})
	v.SetDefault("shuffleSeed", DefaultSeed)
	v.SetDefault("timeout", int(defaultRequestTimeout.Seconds()))
	v.SetDefault("failFast", false)
	v.SetDefault("debug", false)
	v.SetDefault("logFile", defaultLogFile)
}

// Load reads the optional config file at path into v, validates the merged
// settings (defaults < file < bound flags) and materializes them into a Config.
// A missing file is only an error when required is true.
func Load(v *viper.Viper, path string, required bool) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	loaded := false
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
		}
		loaded = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("could not stat config file %q: %w", path, err)
	} else if required {
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	if err := validateSettings(v.AllSettings()); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if loaded {
		cfg.ConfigPath = path
	}
	cfg.Host.URL = strings.TrimRight(strings.TrimSpace(cfg.Host.URL), "/")
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return cfg, nil
}
