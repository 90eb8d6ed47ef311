// =============================================================================
// Order Summarizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (summarizer)
//   ├── summarizeCmd (summarizer summarize FILE)
//   ├── processCmd   (summarizer process)
//   ├── serveCmd     (summarizer serve)
//   ├── validateCmd  (summarizer validate)
//   ├── schemaCmd    (summarizer schema)
//   └── versionCmd   (summarizer version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads a .env file from the working directory, if there is one
//   2. Loads the main configuration (file, then ORDERSUM_* environment)
//   3. Builds the zap logger
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/logging"
	"github.com/ginjaninja78/order-summarizer/internal/validation"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is the loaded configuration, set before any subcommand runs.
var appConfig *config.MainConfig

// logger is built from appConfig.Logging.
var logger = zap.NewNop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "summarizer",
	Short: "Order Summarizer - Total SKU quantities from order exports",
	Long: `Order Summarizer reads order exports (XLSX or CSV) and totals the ordered
quantity per SKU. SKUs are split into two groups by their first letter
(K, L and D in one group, R in the other by default) and a grand total is
computed over every row with a SKU.

Key Features:
  - Interactive summaries rendered as terminal tables
  - Clipboard export of either group as "SKU - quantity" lines
  - Batch processing of an input directory with archival
  - Text, XML, CSV, XLSX and JSON outputs
  - HTTP upload endpoint with Prometheus metrics

Example Usage:
  summarizer summarize orders.xlsx         # Print the summary tables
  summarizer summarize orders.xlsx --copy a # Copy group A to the clipboard
  summarizer process                       # Summarize everything in input_dir
  summarizer serve --addr :9000            # Serve the HTTP API`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initApp loads the environment, the configuration and the logger.
// A missing config file is only an error when --config was given.
func initApp(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	l, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	logger.Debug("configuration loaded", zap.String("config", cfgFile))
	return nil
}

// validConfig returns appConfig, or every validation problem as one error.
func validConfig() (*config.MainConfig, error) {
	if err := validation.ValidateConfig(appConfig); err != nil {
		return nil, errors.New(validation.FormatErrors(err))
	}
	return appConfig, nil
}
