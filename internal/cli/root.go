// internal/cli/root.go
package trocadilho

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/trocadilho/internal/appconfig"
	"github.com/mwiater/trocadilho/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = map[string]string{
	"debug":       "debug",
	"logFile":     "logFile",
	"host":        "host.url",
	"model":       "model",
	"shuffleSeed": "shuffleSeed",
	"failFast":    "failFast",
}

var rootCmd = &cobra.Command{
	Use:   "trocadilho",
	Short: "trocadilho — batch pun classification against a local language model",
	Long: `trocadilho sends Portuguese phrases (or pun/non-pun pairs) to a locally
hosted language model, stores every reply in SQLite and computes
classification metrics from the stored attempts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Argument validation already passed; errors from here on are not usage errors.
		cmd.SilenceUsage = true

		v := viper.New()
		appconfig.SetDefaults(v)
		for name, key := range flagKeys {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}

		cfg, err := appconfig.Load(v, cfgFile, cmd.Root().PersistentFlags().Changed("config"))
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return err
		}

		currentConfig = &cfg
		return nil
	},
}

// Execute runs the root command. SIGINT/SIGTERM cancel the command context so
// a running batch stops after the current item.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging on the console")
	rootCmd.PersistentFlags().String("logFile", "", "path of the JSON log file")
	rootCmd.PersistentFlags().String("host", "", "completion service base URL (overrides host.url)")
	rootCmd.PersistentFlags().String("model", "", "model name (overrides model)")
	rootCmd.PersistentFlags().Int64("shuffleSeed", appconfig.DefaultSeed, "seed for the pair order shuffle")
	rootCmd.PersistentFlags().Bool("failFast", false, "abort the run on the first transport error")
}

// GetConfig returns the merged configuration of the running command.
func GetConfig() *appconfig.Config {
	return currentConfig
}
