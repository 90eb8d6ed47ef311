package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-summarizer/internal/writer"
)

// schemaCmd prints the XSD of the xml output format.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the XML schema of the xml output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writer.WriteXSD(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
