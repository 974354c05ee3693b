// Package cmd provides the command-line interface of checkoutsim.
package cmd

import (
	"github.com/sarchlab/checkoutsim/config"
	"github.com/sarchlab/checkoutsim/logging"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "checkoutsim",
	Short: "Checkoutsim simulates a single-server checkout queue.",
	Long: `Checkoutsim estimates the utilisation, the mean number of ` +
		`customers and the mean system time of an M/M/1 checkout by ` +
		`running many independent discrete-event trials.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"file of CHECKOUT_* variables loaded before the environment")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return cfg, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}

	logger := logging.New(level, cmd.ErrOrStderr(), false)

	return cfg, logger, nil
}
