package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gcgcards/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Start the card lookup page on a local address (server.addr in the config,
default 127.0.0.1:8650). The page runs an unfiltered search on load, offers
the filter form and a weighted-adjustment form on every scored card.

Examples:
  gcgcards serve
  gcgcards serve --addr=127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a := newApp(cfg, logger)
	defer a.Close()

	if !a.backend.Configured() {
		logger.Warn("backend not configured; searches will show the configuration hint")
	}

	opts := []web.Option{web.WithLogger(logger.Named("web"))}
	if a.journal != nil {
		opts = append(opts, web.WithJournal(a.journal))
	}

	server, err := web.New(a.backend, cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	fmt.Fprintf(os.Stderr, "Serving on http://%s (Ctrl+C to stop)\n", server.Addr())
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("web server failed", zap.Error(err))
		return err
	}
	return nil
}
