package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// settingsSchema describes the merged settings map. Viper lower-cases every
// key, so property names here are lower-case too.
const settingsSchema = `{
  "type": "object",
  "properties": {
    "host": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "url":  {"type": "string", "pattern": "^https?://"},
        "type": {"type": "string", "enum": ["", "ollama", "llama.cpp", "llamacpp", "llama-cpp"]}
      },
      "required": ["url"]
    },
    "model":            {"type": "string", "minLength": 1},
    "systemprompt":     {"type": "string"},
    "pairsystemprompt": {"type": "string"},
    "options": {
      "type": "object",
      "properties": {
        "temperature": {"type": "number", "minimum": 0},
        "seed":        {"type": "integer"},
        "stop":        {"type": "array", "items": {"type": "string"}}
      }
    },
    "shuffleseed": {"type": "integer"},
    "timeout":     {"type": "integer", "minimum": 0},
    "failfast":    {"type": "boolean"},
    "debug":       {"type": "boolean"},
    "logfile":     {"type": "string"}
  },
  "required": ["host", "model"]
}`

var schemaLoader = gojsonschema.NewStringLoader(settingsSchema)

// validateSettings checks the merged settings map against settingsSchema and
// reports every violation in a single error.
func validateSettings(settings map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(settings))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
