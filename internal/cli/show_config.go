// internal/cli/show_config.go
package trocadilho

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show the merged configuration: defaults, overridden by the config file, overridden by flags.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		if cfg.ConfigPath == "" {
			fmt.Fprintln(out, "No config file loaded (using defaults).")
		} else {
			fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
		}

		_, err := pp.Fprintln(out, cfg)
		return err
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
