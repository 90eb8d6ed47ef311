// =============================================================================
// Order Summarizer - Process Command
// =============================================================================
//
// This file defines the 'process' command, which summarizes every order
// export found in the input directory.
//
// COMMAND USAGE:
//   summarizer process [flags]
//
// FLAGS:
//   --dry-run : Summarize without writing outputs or archiving inputs
//   --file    : Process only this file instead of scanning the input directory
//
// PROCESSING PIPELINE:
//   1. Load and validate configuration
//   2. Discover XLSX/CSV files in the input directory
//   3. For each file (concurrently, up to max_concurrency):
//      a. Load the first sheet
//      b. Summarize the rows
//      c. Write one output file per output format
//      d. Archive the input
//   4. Print the results and write the processing summary log
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-summarizer/internal/processor"
	"github.com/ginjaninja78/order-summarizer/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun summarizes without writing output files.
var dryRun bool

// filePath is a single file to process instead of the input directory.
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Summarize every order export in the input directory",
	Long: `The process command scans the input directory for XLSX and CSV order
exports and summarizes each of them.

Processing is done concurrently. Each file is processed independently and,
unless continue_on_error is false, errors in one file do not affect others.

On successful processing:
  - One summary per output format is placed in the output directory
  - The original export is moved to the input archive
  - A processing summary log is written to the output directory

On error:
  - The original export remains in the input directory`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runProcess(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Summarize without writing output files or archiving inputs",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the batch and reports on out.
func runProcess(ctx context.Context, out io.Writer) error {
	startTime := time.Now()

	cfg, err := validConfig()
	if err != nil {
		return err
	}

	proc, err := processor.New(cfg, logger, processor.WithDryRun(dryRun))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== Order Summarizer ===")
	if dryRun {
		fmt.Fprintln(out, "Dry run: no files will be written or archived.")
	}

	// =========================================================================
	// STEP 1-3: DISCOVER AND PROCESS FILES
	// =========================================================================

	var results []processor.Result
	if filePath != "" {
		results, err = proc.ProcessFiles(ctx, []string{filePath})
	} else {
		fmt.Fprintf(out, "Scanning %s...\n", cfg.InputDir)
		results, err = proc.ProcessInputDir(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to prepare input files: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No order exports found in the input directory.")
		return nil
	}

	// =========================================================================
	// STEP 4: REPORT RESULTS
	// =========================================================================

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		if !result.Success {
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}
		if len(result.OutputFiles) == 0 {
			fmt.Fprintf(out, "  ✓ %s (grand total %s)\n", name, result.Stats.GrandTotal)
			continue
		}
		for _, output := range result.OutputFiles {
			fmt.Fprintf(out, "  ✓ %s -> %s\n", name, output)
		}
	}

	summary := processor.BatchSummary(startTime, time.Now(), results)

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))

	if !dryRun {
		logPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			logger.Warn("failed to write processing summary", zap.Error(err))
		} else {
			fmt.Fprintf(out, "Summary log:     %s\n", logPath)
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}
