// internal/cli/prompt_run.go
package trocadilho

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/trocadilho/internal/providerfactory"
	"github.com/mwiater/trocadilho/internal/providers"
)

// promptCmd groups one-off prompt utilities.
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Send ad-hoc prompts to the configured model",
}

var promptRunCmd = &cobra.Command{
	Use:   "run <prompt.txt> <response.txt>",
	Short: "Send a prompt file with the fixed generation options and save the reply",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		out := cmd.OutOrStdout()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return fmt.Errorf("prompt file %s is empty", args[0])
		}

		completer, err := providerfactory.NewCompleter(cfg)
		if err != nil {
			return err
		}
		defer completer.Close()

		fmt.Fprintf(out, "--- Prompt loaded from %s ---\n", args[0])
		resp, err := completer.Generate(cmd.Context(), providers.GenerateRequest{
			Host:    cfg.Host,
			Model:   cfg.Model,
			Prompt:  string(data),
			Options: cfg.Options,
		})
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		fmt.Fprintln(out, "--- Model response ---")
		fmt.Fprintln(out, resp.Text)
		if err := os.WriteFile(args[1], []byte(resp.Text), 0o644); err != nil {
			return fmt.Errorf("save response: %w", err)
		}
		fmt.Fprintf(out, "Response saved to %s (%s, %d tokens)\n", args[1], resp.TotalDuration, resp.EvalCount)
		return nil
	},
}

func init() {
	promptCmd.AddCommand(promptRunCmd)
	rootCmd.AddCommand(promptCmd)
}
