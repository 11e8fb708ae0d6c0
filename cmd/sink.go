package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/pipeline-notify/internal/logging"
	"github.com/JakeFAU/pipeline-notify/internal/receiver"
)

// newSinkCmd creates and configures the 'sink' subcommand, which hosts
// the local webhook receiver.
func newSinkCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "sink",
		Short: "Run a local webhook receiver",
		Long: `Serves a Slack-compatible webhook endpoint for development. Payloads
POSTed to / are validated, counted, and summarized in the log; /healthz
and /metrics round out the surface. Stop with SIGINT or SIGTERM.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSinkCommand(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8066", "listen address")
	return cmd
}

func runSinkCommand(ctx context.Context, addr string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logging.Flush(logger) //nolint:errcheck // best-effort flush

	server := &http.Server{
		Addr:              addr,
		Handler:           receiver.NewServer(logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("receiver listening", zap.String("addr", addr))
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case serveErr := <-errCh:
		return fmt.Errorf("receiver failed: %w", serveErr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown receiver: %w", err)
	}
	logger.Info("receiver stopped")
	return nil
}
