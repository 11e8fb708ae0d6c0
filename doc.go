// Package notify sends human-readable progress and status notifications
// for long-running batch jobs. A Notifier delivers Slack Block Kit
// payloads to an incoming webhook when one is configured and appends
// formatted records to a local notification log otherwise. Progress
// summaries are throttled by percentage thresholds, so a run posts a
// handful of updates instead of one per processed unit.
package notify
