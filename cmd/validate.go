// =============================================================================
// Order Summarizer - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// without summarizing anything.
//
// COMMAND USAGE:
//   summarizer validate
//   summarizer validate --config ./prod.yaml
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-summarizer/internal/validation"
)

// errInvalidConfig is returned after the problems have been printed.
var errInvalidConfig = errors.New("configuration is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate loads the configuration file and ORDERSUM_* environment variables,
applies defaults and reports every invalid setting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if err := validation.ValidateConfig(appConfig); err != nil {
			fmt.Fprint(out, validation.FormatErrors(err))
			return errInvalidConfig
		}

		fmt.Fprintln(out, "Configuration is valid.")
		fmt.Fprintf(out, "  Identifier column: %s\n", appConfig.Layout.IdentifierColumn)
		fmt.Fprintf(out, "  Quantity column:   %s\n", appConfig.Layout.QuantityColumn)
		fmt.Fprintf(out, "  Group A:           %s %v\n", appConfig.Layout.GroupA.Name, appConfig.Layout.GroupA.Letters)
		fmt.Fprintf(out, "  Group B:           %s %v\n", appConfig.Layout.GroupB.Name, appConfig.Layout.GroupB.Letters)
		fmt.Fprintf(out, "  Output formats:    %v\n", appConfig.OutputFormats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
