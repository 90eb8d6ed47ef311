// =============================================================================
// Order Summarizer - Summarize Command
// =============================================================================
//
// This file defines the 'summarize' command, which summarizes one order
// export and shows the result.
//
// COMMAND USAGE:
//   summarizer summarize FILE [flags]
//
// FLAGS:
//   --format  : table (default), text, xml, csv, xlsx or json
//   --output  : Write to this file instead of standard output
//   --copy    : Copy group "a" or "b" to the clipboard as "SKU - quantity" lines
//
// Nothing is archived and no file is written unless --output is given.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-summarizer/internal/processor"
	"github.com/ginjaninja78/order-summarizer/internal/render"
	"github.com/ginjaninja78/order-summarizer/internal/summary"
	"github.com/ginjaninja78/order-summarizer/internal/writer"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	summarizeFormat string
	summarizeOutput string
	summarizeCopy   string
)

// clipboardWriteAll is replaced in tests.
var clipboardWriteAll = clipboard.WriteAll

const formatTable = "table"

// =============================================================================
// SUMMARIZE COMMAND DEFINITION
// =============================================================================

var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE",
	Short: "Summarize one order export",
	Long: `Summarize reads the first sheet of an XLSX or CSV order export, totals the
quantity of each SKU and prints both groups and the grand total.

Examples:
  summarizer summarize orders.xlsx
  summarizer summarize orders.csv --format json --output summary.json
  summarizer summarize orders.xlsx --copy b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummarize(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVarP(
		&summarizeFormat,
		"format",
		"f",
		formatTable,
		"Output format: table, text, xml, csv, xlsx or json",
	)

	summarizeCmd.Flags().StringVarP(
		&summarizeOutput,
		"output",
		"o",
		"",
		"Write the summary to this file instead of standard output",
	)

	summarizeCmd.Flags().StringVar(
		&summarizeCopy,
		"copy",
		"",
		`Copy group "a" or "b" to the clipboard`,
	)
}

// runSummarize summarizes path and writes the result to out, or to
// --output when set.
func runSummarize(out io.Writer, path string) error {
	cfg, err := validConfig()
	if err != nil {
		return err
	}

	var format writer.Format
	if summarizeFormat != formatTable {
		if format, err = writer.ParseFormat(summarizeFormat); err != nil {
			return err
		}
	}
	if format == writer.FormatXLSX && summarizeOutput == "" {
		return errors.New("xlsx output requires --output")
	}
	if summarizeCopy != "" && !summary.IsGroupKey(summarizeCopy) {
		return fmt.Errorf("unknown group %q (want a or b)", summarizeCopy)
	}

	proc, err := processor.New(cfg, logger)
	if err != nil {
		return err
	}

	res, err := proc.SummarizeFile(path)
	if err != nil {
		return err
	}

	if err := writeSummary(out, res, format); err != nil {
		return err
	}

	if summarizeCopy != "" {
		return copyGroup(out, res, summarizeCopy)
	}
	return nil
}

// writeSummary renders res to --output or out. An empty format means the
// terminal tables.
func writeSummary(out io.Writer, res *summary.Result, format writer.Format) error {
	if summarizeOutput == "" {
		return encodeSummary(out, res, format)
	}

	file, err := os.Create(summarizeOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encodeSummary(file, res, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s\n", summarizeOutput)
	return nil
}

func encodeSummary(w io.Writer, res *summary.Result, format writer.Format) error {
	if format == "" {
		_, err := io.WriteString(w, render.Tables(res))
		return err
	}
	return writer.Write(w, res, format)
}

// copyGroup puts the text of one group on the clipboard.
func copyGroup(out io.Writer, res *summary.Result, key string) error {
	group, _ := res.Group(key)
	if err := clipboardWriteAll(group.Text()); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	fmt.Fprintf(out, "Copied %s to clipboard\n", group.Name)
	return nil
}
