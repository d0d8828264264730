// internal/cli/metrics.go
package trocadilho

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/trocadilho/internal/metrics"
	"github.com/mwiater/trocadilho/internal/store"
	"github.com/mwiater/trocadilho/internal/util"
)

var debugCSVPath string

// metricsCmd groups the metric reports over a result store.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute classification metrics from a result store",
}

var metricsPhrasesCmd = &cobra.Command{
	Use:   "phrases <store.db> <output.csv>",
	Short: "Metrics for single-phrase runs (results table)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMetrics(cmd, modePhrases, args[0], args[1])
	},
}

var metricsPairsCmd = &cobra.Command{
	Use:   "pairs <store.db> <output.csv>",
	Short: "Metrics for pair runs (results_pairs table, unfolded per phrase)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMetrics(cmd, modePairs, args[0], args[1])
	},
}

func runMetrics(cmd *cobra.Command, mode, storePath, outputPath string) error {
	if _, err := os.Stat(storePath); err != nil {
		return fmt.Errorf("result store %s: %w", storePath, err)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	st, err := store.OpenReadOnly(ctx, storePath)
	if err != nil {
		return err
	}
	defer st.Close()

	var (
		snap metrics.Snapshot
		obs  []metrics.Observation
	)
	switch mode {
	case modePairs:
		rows, err := st.ListPairs(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Read %d pair rows.\n", len(rows))
		snap = metrics.ComputePairs(rows)
		obs, _, _ = metrics.UnfoldPairs(rows)
		if snap.Excluded > 0 {
			fmt.Fprintf(out, "Warning: %d pair rows had parse errors and were excluded.\n", snap.Excluded)
		}
	default:
		rows, err := st.ListPhrases(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Read %d phrase rows.\n", len(rows))
		snap = metrics.ComputePhrases(rows)
		obs = metrics.AllPhraseObservations(rows)
		if snap.Excluded > 0 {
			fmt.Fprintf(out, "Warning: %d rows contained unrecognized labels and were excluded.\n", snap.Excluded)
			sample := make([]string, 0, len(snap.ExcludedLabels))
			for _, label := range snap.ExcludedLabels {
				sample = append(sample, util.OneLine(label, 30))
			}
			fmt.Fprintf(out, "Sample of excluded labels: %q\n", sample)
		}
	}

	if debugCSVPath != "" {
		if err := metrics.WriteFile(debugCSVPath, func(w io.Writer) error { return metrics.WriteDebugCSV(w, obs) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Debug data saved to: %s\n", debugCSVPath)
	}

	if snap.Confusion.Total() == 0 {
		return fmt.Errorf("no valid rows remain in %s", storePath)
	}
	if err := metrics.WriteFile(outputPath, func(w io.Writer) error { return metrics.WriteCSV(w, snap) }); err != nil {
		return err
	}

	fmt.Fprintln(out, renderSnapshot(snap))
	fmt.Fprintf(out, "Results saved to: %s\n", outputPath)
	return nil
}

var metricStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

func renderSnapshot(snap metrics.Snapshot) string {
	var b strings.Builder
	for _, row := range snap.Rows() {
		fmt.Fprintf(&b, "%-28s %s\n", row.Metric, metricStyle.Render(row.Value))
	}
	return strings.TrimRight(b.String(), "\n")
}

func init() {
	metricsCmd.PersistentFlags().StringVar(&debugCSVPath, "debugCSV", "", "also write per-instance y_true,y_pred rows to this CSV")
	metricsCmd.AddCommand(metricsPhrasesCmd)
	metricsCmd.AddCommand(metricsPairsCmd)
	rootCmd.AddCommand(metricsCmd)
}
