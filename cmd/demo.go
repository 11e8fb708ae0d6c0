package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	notify "github.com/JakeFAU/pipeline-notify"
	"github.com/JakeFAU/pipeline-notify/internal/logging"
)

type demoOptions struct {
	total     int
	failEvery int
	interval  time.Duration
}

// newDemoCmd creates and configures the 'demo' subcommand, which walks a
// simulated batch run through the progress thresholds.
func newDemoCmd() *cobra.Command {
	var opts demoOptions
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Simulate a batch run against the progress thresholds",
		Long: `Drives the notifier the way a host batch process would: one unit at a
time through AddProcessed and ReportProgress, with an optional failure
cadence. Point SLACK_WEBHOOK_URL at 'notifyctl sink' to watch the
threshold summaries arrive.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemoCommand(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.total, "total", 20, "number of units in the simulated batch")
	flags.IntVar(&opts.failEvery, "fail-every", 0, "mark every Nth unit failed (0 disables)")
	flags.DurationVar(&opts.interval, "interval", 200*time.Millisecond, "pause between units")

	return cmd
}

func runDemoCommand(ctx context.Context, opts demoOptions) error {
	if opts.total <= 0 {
		return errors.New("--total must be positive")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logging.Flush(logger) //nolint:errcheck // best-effort flush

	n, err := notify.New(notify.Config{Logger: logger, TotalUnits: opts.total})
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	defer n.Close() //nolint:errcheck // best-effort flush

	runID := uuid.NewString()
	logger.Info("demo starting",
		zap.String("run_id", runID),
		zap.String("mode", string(n.Mode())),
		zap.Int("total", opts.total))

	if !n.Info(ctx, "demo batch starting",
		notify.WithTitle("Notifier Demo"),
		notify.WithFields(
			notify.String("run_id", runID),
			notify.String("total_units", strconv.Itoa(opts.total)),
		)) {
		logger.Warn("start notification failed")
	}

	for unit := 1; unit <= opts.total; unit++ {
		if opts.interval > 0 {
			select {
			case <-ctx.Done():
				logger.Info("demo canceled", zap.String("run_id", runID), zap.Int("unit", unit))
				return nil
			case <-time.After(opts.interval):
			}
		}
		n.AddProcessed(1)
		succeeded := opts.failEvery == 0 || unit%opts.failEvery != 0
		if !n.ReportProgress(ctx, succeeded) {
			logger.Warn("progress summary delivery failed", zap.Int("unit", unit))
		}
	}

	if !n.Success(ctx,
		fmt.Sprintf("demo batch finished: %d units, %d failed", n.Processed(), n.ErrorUnits()),
		notify.WithFields(notify.String("run_id", runID))) {
		logger.Warn("completion notification failed")
	}

	logger.Info("demo complete",
		zap.String("run_id", runID),
		zap.Int("errors", n.ErrorUnits()))
	return nil
}
