package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-summarizer/internal/processor"
	"github.com/ginjaninja78/order-summarizer/internal/server"
)

// serveAddr overrides server.addr when set.
var serveAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summarizer over HTTP",
	Long: `Serve starts an HTTP server that summarizes uploaded order exports.

Routes:
  POST /api/v1/summaries   multipart field "file"; ?format=json|text|xml|csv|xlsx
  GET  /healthz            liveness check
  GET  /metrics            Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := validConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		proc, err := processor.New(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(proc, cfg.Server, logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr, :8080)")
}
