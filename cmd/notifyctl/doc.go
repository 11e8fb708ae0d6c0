// Package main hosts the notifyctl entrypoint.
//
// Architecture overview:
//   - Notifier core: the root notify package renders severity-tagged messages and delivers them over one of two
//     channels chosen at construction: a Slack incoming webhook (Block Kit JSON via internal/webhook) or a local
//     notification log (internal/logsink, an append-only zap core with the classic "ts - LEVEL - message" layout).
//   - Progress gating: internal/gate holds the ascending percentage thresholds and a high-water mark; ReportProgress
//     fires at most one summary per call, so a jump from 0% to 100% drains one threshold per subsequent call instead
//     of flooding the channel.
//   - Commands: 'send' delivers a single notification and exits nonzero on failure, 'demo' walks a simulated batch
//     through the thresholds the way a host process would, and 'sink' serves internal/receiver as a local
//     Slack-compatible endpoint with request-id, logging, and recovery middleware.
//   - Configuration & plumbing: Viper reads SLACK_WEBHOOK_URL, SYSTEM_NAME, NOTIFICATION_PERCENTAGES,
//     NOTIFICATION_LOG_PATH, and NOTIFICATION_TIMEOUT_SECONDS; zap provides structured diagnostics separate from the
//     notification channel itself; Prometheus collectors are available to any caller that injects a registerer.
//
// Operational notes:
//   - Delivery contract: every send reports a boolean. Webhook failures are logged and reported false with exactly
//     one attempt per call; local-log delivery does not fail. Construction is the only place errors are returned.
//   - Shutdown: Execute cancels the command context on SIGINT/SIGTERM; 'demo' stops between units and 'sink' drains
//     its HTTP server with a bounded shutdown timeout.
//   - The notifier holds no goroutines and no queues; a single batch process drives it synchronously.
//
// Quick checklist:
//   - Configure env vars: SLACK_WEBHOOK_URL (unset for local-log mode), SYSTEM_NAME, NOTIFICATION_PERCENTAGES
//     (default "20,100"), NOTIFICATION_LOG_PATH (default "notifications.log"), NOTIFICATION_TIMEOUT_SECONDS.
//   - Run locally: go run ./cmd/notifyctl demo --total 20 --fail-every 7, with a second terminal running
//     go run ./cmd/notifyctl sink and SLACK_WEBHOOK_URL=http://localhost:8066/ exported to the demo.
//   - One-off sends: notifyctl send --level error --title "Nightly Import" --message "load failed".
package main
