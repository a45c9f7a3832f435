// Package cmd provides the CLI commands for the rater.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rating-engine/internal/config"
	"rating-engine/internal/logging"
)

var (
	ratesFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rater",
	Short: "Rate usage records and publish charge records",
	Long: `rater turns raw usage records into charge records.

Each inbound message holds one JSON record or an array of them. Records are
charged usage x rate from the configured rate table and published either as one
broadcast or partitioned by routing key.

Settings come from RATER_* environment variables.

Examples:
  rater serve
  RATER_TRANSPORT=kafka rater serve
  echo '{"usage":10,"_class":"Foo"}' | rater rate --rates rates.yaml`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "", "rate table YAML file (overrides RATER_RATES_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads the environment, applies flag overrides and builds the logger.
func loadSettings() (config.Settings, *zap.Logger, error) {
	cfg, err := config.Parse(nil)
	if err != nil {
		return config.Settings{}, nil, err
	}
	if ratesFile != "" {
		cfg.RatesFile = ratesFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return config.Settings{}, nil, fmt.Errorf("initialize logging: %w", err)
	}

	settings, err := config.Build(cfg)
	if err != nil {
		return config.Settings{}, nil, err
	}

	if invalid := settings.Rates.Invalid(); len(invalid) > 0 {
		logger.Warn("rates that do not parse fall back to the default rate", zap.Strings("categories", invalid))
	}
	return settings, logger, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "rater version 0.1.0")
	},
}
