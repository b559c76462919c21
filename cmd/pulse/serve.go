package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paperpulse/pulse/internal/server"
)

var (
	serveAddr  string
	serveLimit int
)

var graphServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive graph explorer",
	Long: `Start a local web server hosting the interactive knowledge-graph
explorer. The graph snapshot is loaded once at startup; each browser
connection gets its own session over a websocket.

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runGraphServe,
}

func init() {
	graphServeCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8780", "Listen address")
	graphServeCmd.Flags().IntVar(&serveLimit, "limit", 0, "Maximum nodes to load (default from config)")
	graphCmd.AddCommand(graphServeCmd)
}

func runGraphServe(cmd *cobra.Command, args []string) error {
	zl, err := zap.NewDevelopment()
	if err != nil {
		exitWithError(ExitError, "initializing logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, newClient(), logger, server.Options{
		Addr:         serveAddr,
		ExploreLimit: resolvedExploreLimit(serveLimit),
	})
	if err != nil {
		exitAPIError(err)
	}

	outputHuman("Explorer at http://%s (Ctrl-C to stop)\n", serveAddr)
	if err := srv.Run(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
