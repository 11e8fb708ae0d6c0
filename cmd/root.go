package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/pipeline-notify/internal/logging"
)

var verbose bool

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifyctl",
		Short: "Send and inspect batch-job progress notifications.",
		Long: `notifyctl drives the pipeline notifier from the command line.
It sends one-off notifications, simulates a batch run against the
percentage thresholds, and hosts a local webhook receiver for
development.

Delivery is configured through the environment: set SLACK_WEBHOOK_URL to
post Block Kit payloads to Slack, or leave it unset to append formatted
records to the local notification log.`,

		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newSinkCmd())

	return cmd
}

// Execute is the main entry point. The command context cancels on
// SIGINT/SIGTERM so long-running subcommands drain cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
