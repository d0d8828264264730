// internal/cli/classify.go
package trocadilho

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/trocadilho/internal/dataset"
	"github.com/mwiater/trocadilho/internal/logging"
	"github.com/mwiater/trocadilho/internal/pipeline"
	"github.com/mwiater/trocadilho/internal/prompt"
	"github.com/mwiater/trocadilho/internal/providerfactory"
	"github.com/mwiater/trocadilho/internal/store"
)

// classifyCmd groups the batch classification runs.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify dataset items with the configured model",
	Long:  `The 'classify' command sends each unprocessed dataset item to the model and stores the parsed reply.`,
}

var classifyPhrasesCmd = &cobra.Command{
	Use:   "phrases <dataset.csv> <prompt.txt> <store.db>",
	Short: "Classify single phrases as pun or non-pun",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd, modePhrases, args[0], args[1], args[2])
	},
}

var classifyPairsCmd = &cobra.Command{
	Use:   "pairs <dataset.csv> <prompt.txt> <store.db>",
	Short: "Ask the model which phrase of each .H/.N pair is the pun",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd, modePairs, args[0], args[1], args[2])
	},
}

const (
	modePhrases = "phrases"
	modePairs   = "pairs"
)

func runClassify(cmd *cobra.Command, mode, datasetPath, promptPath, storePath string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	rows, err := dataset.ReadRows(datasetPath)
	if err != nil {
		return err
	}
	template, err := prompt.LoadTemplate(promptPath)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, storePath)
	if err != nil {
		return err
	}
	defer st.Close()

	completer, err := providerfactory.NewCompleter(cfg)
	if err != nil {
		return err
	}
	defer completer.Close()

	runner := pipeline.New(cfg, completer, st, prompt.NewComposer(template, cfg.ShuffleSeed), out)
	logging.LogEvent("run %s: %s classification of %s with %s on %s (%s)", runner.RunID(), mode, datasetPath, cfg.Model, cfg.HostName(), cfg.HostType())

	var summary pipeline.Summary
	switch mode {
	case modePairs:
		pairs := dataset.LoadPairs(rows)
		fmt.Fprintf(out, "Complete pairs found: %d\n", len(pairs))
		summary, err = runner.RunPairs(ctx, pairs)
	default:
		summary, err = runner.RunPhrases(ctx, rows)
	}

	fmt.Fprintln(out, summary.Render())
	if err != nil {
		return fmt.Errorf("%s run stopped: %w", mode, err)
	}
	return nil
}

func init() {
	classifyCmd.AddCommand(classifyPhrasesCmd)
	classifyCmd.AddCommand(classifyPairsCmd)
	rootCmd.AddCommand(classifyCmd)
}
