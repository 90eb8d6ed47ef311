// =============================================================================
// Order Summarizer - Main Entry Point
// =============================================================================
//
// USAGE:
//   summarizer summarize FILE  - Summarize one order export
//   summarizer process         - Summarize every export in the input directory
//   summarizer serve           - Serve the HTTP API
//   summarizer validate        - Validate the configuration
//   summarizer schema          - Print the XML output schema
//   summarizer version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Cobra command definitions
//   - internal/      : Loading, summarizing, output and serving
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/order-summarizer/cmd"
)

func main() {
	cmd.Execute()
}
