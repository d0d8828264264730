// internal/cli/dataset_check.go
package trocadilho

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/trocadilho/internal/dataset"
)

var errPairsIncomplete = errors.New("dataset has unpaired or unrecognized ids")

// datasetCmd groups dataset inspection commands.
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect dataset files",
}

var datasetCheckCmd = &cobra.Command{
	Use:   "check <dataset.csv>",
	Short: "Verify that every .H id has a matching .N id and vice versa",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := dataset.ReadRows(args[0])
		if err != nil {
			return err
		}
		report := dataset.CheckPairs(rows)
		out := cmd.OutOrStdout()

		if report.OK() {
			fmt.Fprintln(out, color.GreenString("All %d ids are correctly paired (%d pairs).", report.TotalIDs, report.Pairs))
			return nil
		}

		fmt.Fprintln(out, color.RedString("Pair check failed."))
		if len(report.OrphanPun) > 0 {
			fmt.Fprintf(out, "\n%d '.H' ids without a '.N':\n", len(report.OrphanPun))
			for _, id := range report.OrphanPun {
				base, _, _ := dataset.SplitID(id)
				fmt.Fprintf(out, "  - %s (missing %s.N)\n", id, base)
			}
		}
		if len(report.OrphanNonPun) > 0 {
			fmt.Fprintf(out, "\n%d '.N' ids without a '.H':\n", len(report.OrphanNonPun))
			for _, id := range report.OrphanNonPun {
				base, _, _ := dataset.SplitID(id)
				fmt.Fprintf(out, "  - %s (missing %s.H)\n", id, base)
			}
		}
		if len(report.Unrecognized) > 0 {
			fmt.Fprintf(out, "\n%d ids with an unrecognized format:\n", len(report.Unrecognized))
			for _, id := range report.Unrecognized {
				fmt.Fprintf(out, "  - %q\n", id)
			}
		}
		return errPairsIncomplete
	},
}

func init() {
	datasetCmd.AddCommand(datasetCheckCmd)
	rootCmd.AddCommand(datasetCmd)
}
