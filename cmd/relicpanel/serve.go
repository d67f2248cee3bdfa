package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"relicpanel/internal/control"
	"relicpanel/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the panel headless behind the HTTP control API",
	Long: `Run the panel without a terminal UI. The discussion is driven over
HTTP and state changes are streamed on /panel/events.

Examples:
  relicpanel serve --addr :5970
  curl -X POST localhost:5970/panel/start -d '{"topic":"Vektoren"}' -H 'Content-Type: application/json'
  curl -X POST localhost:5970/command -d '{"text":"/read 2"}' -H 'Content-Type: application/json'`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :5970)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, logger, cleanup, err := setup(ctx, "")
	if err != nil {
		return err
	}
	defer cleanup()

	addr := serveAddr
	if addr == "" {
		addr = a.Config().Server.Addr
	}

	srv := control.New(a, logging.Component(logger, "control"))
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
