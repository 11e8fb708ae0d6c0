// Package cmd defines and implements the CLI commands for the notifyctl executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	notify "github.com/JakeFAU/pipeline-notify"
	"github.com/JakeFAU/pipeline-notify/internal/logging"
)

type sendOptions struct {
	level   string
	title   string
	message string
	fields  []string
	codes   []string
	rawCode string
}

// newSendCmd creates and configures the 'send' subcommand, which delivers
// a single notification and exits nonzero when delivery fails.
func newSendCmd() *cobra.Command {
	var opts sendOptions
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a one-off notification",
		Long: `Sends a single notification through the configured channel. Meant for
shell pipelines that want to report a terminal state:

  notifyctl send --level error --title "Nightly Import" \
      --message "load failed" --field step=4 --code traceback="$(cat err.txt)"`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSendCommand(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.level, "level", "info", "severity: success, warning, error, info, debug")
	flags.StringVar(&opts.title, "title", "", "optional header above the notification body")
	flags.StringVar(&opts.message, "message", "", "notification body (required)")
	flags.StringArrayVar(&opts.fields, "field", nil, "key=value detail, repeatable")
	flags.StringArrayVar(&opts.codes, "code", nil, "name=text code block, repeatable")
	flags.StringVar(&opts.rawCode, "raw-code", "", "raw code payload; JSON objects expand per key")

	return cmd
}

func runSendCommand(ctx context.Context, opts sendOptions) error {
	if opts.message == "" {
		return errors.New("--message is required")
	}
	level, err := parseLevel(opts.level)
	if err != nil {
		return err
	}
	msgOpts, err := messageOptions(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logging.Flush(logger) //nolint:errcheck // best-effort flush

	n, err := notify.New(notify.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	defer n.Close() //nolint:errcheck // best-effort flush

	if !n.Notify(ctx, level, opts.message, msgOpts...) {
		return errors.New("notification delivery failed")
	}
	logger.Info("notification delivered", zap.String("mode", string(n.Mode())))
	return nil
}

func messageOptions(opts sendOptions) ([]notify.MessageOption, error) {
	var out []notify.MessageOption
	if opts.title != "" {
		out = append(out, notify.WithTitle(opts.title))
	}
	if len(opts.fields) > 0 {
		fields := make([]notify.Field, 0, len(opts.fields))
		for _, raw := range opts.fields {
			key, value, err := parseKV("field", raw)
			if err != nil {
				return nil, err
			}
			fields = append(fields, notify.String(key, value))
		}
		out = append(out, notify.WithFields(fields...))
	}
	if len(opts.codes) > 0 {
		codes := make([]notify.CodeBlock, 0, len(opts.codes))
		for _, raw := range opts.codes {
			name, text, err := parseKV("code", raw)
			if err != nil {
				return nil, err
			}
			codes = append(codes, notify.CodeBlock{Name: name, Text: text})
		}
		out = append(out, notify.WithCodeBlocks(codes...))
	}
	if opts.rawCode != "" {
		out = append(out, notify.WithRawCodeBlock(opts.rawCode))
	}
	return out, nil
}

func parseLevel(s string) (notify.Level, error) {
	switch strings.ToLower(s) {
	case "success":
		return notify.LevelSuccess, nil
	case "warning":
		return notify.LevelWarning, nil
	case "error":
		return notify.LevelError, nil
	case "info":
		return notify.LevelInfo, nil
	case "debug":
		return notify.LevelDebug, nil
	}
	return 0, fmt.Errorf("unknown level %q (want success, warning, error, info, or debug)", s)
}

func parseKV(flag, raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("--%s %q: want key=value", flag, raw)
	}
	return key, value, nil
}
