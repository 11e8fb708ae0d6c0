package notify

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/pipeline-notify/internal/clock/system"
	"github.com/JakeFAU/pipeline-notify/internal/config"
	"github.com/JakeFAU/pipeline-notify/internal/gate"
	"github.com/JakeFAU/pipeline-notify/internal/logsink"
	"github.com/JakeFAU/pipeline-notify/internal/metrics"
	"github.com/JakeFAU/pipeline-notify/internal/webhook"
)

// Mode selects where notifications are delivered.
type Mode string

// Supported delivery modes. The mode is decided once at construction: a
// webhook URL selects ModeWebhook, otherwise everything goes to the local
// notification log.
const (
	ModeWebhook Mode = "webhook"
	ModeLog     Mode = "log"
)

// Clock abstracts wall-clock time for footer timestamps and rate math.
type Clock interface {
	Now() time.Time
}

// Config controls a Notifier. String and numeric knobs resolve as explicit
// value, then environment variable, then default, so the zero value is a
// working local-log notifier.
//   - WebhookURL: remote endpoint (SLACK_WEBHOOK_URL); empty selects log mode.
//   - SystemName: footer identity (SYSTEM_NAME, then the host name).
//   - LogPath: notification log location (NOTIFICATION_LOG_PATH, default "notifications.log").
//   - Thresholds: comma-separated progress percentages (NOTIFICATION_PERCENTAGES, default "20,100").
//   - TotalUnits: units the run expects to process; SetTotal can adjust later.
//   - StartTime: run start used for elapsed/rate math (default now).
//   - Timeout: webhook delivery budget (NOTIFICATION_TIMEOUT_SECONDS, default 10s).
//   - HTTPClient: optional transport override for webhook mode.
//   - Logger: diagnostics only, never notification content (default no-op).
//   - Clock: time source override used by tests (default system clock).
//   - Registerer: optional Prometheus registry; nil leaves metrics off.
type Config struct {
	WebhookURL string
	SystemName string
	LogPath    string
	Thresholds string
	TotalUnits int
	StartTime  time.Time
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Clock      Clock
	Registerer prometheus.Registerer
}

// Notifier posts human-readable status and progress notifications for a
// batch run to a Slack-compatible webhook or a local notification log.
//
// A Notifier is not safe for unsynchronized concurrent use: its counters
// move without atomicity, matching the single-driver batch loop it serves.
type Notifier struct {
	mode   Mode
	system string
	logger *zap.Logger
	clock  Clock
	sink   *logsink.Sink
	client *webhook.Client
	gate   *gate.Gate
	rec    *metrics.Recorder

	total     int
	processed int
	errors    int
	startTime time.Time
}

// New resolves cfg against the environment and builds a Notifier. The
// notification log opens in both modes, so an unwritable log path fails
// construction, as does a malformed threshold list.
func New(cfg Config) (*Notifier, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve notifier environment: %w", err)
	}

	url := cfg.WebhookURL
	if url == "" {
		url = env.WebhookURL
	}
	systemName := cfg.SystemName
	if systemName == "" {
		systemName = env.SystemName
	}
	if systemName == "" {
		systemName = hostname()
	}
	thresholdList := cfg.Thresholds
	if thresholdList == "" {
		thresholdList = env.Thresholds
	}
	thresholds, err := gate.ParseThresholds(thresholdList)
	if err != nil {
		return nil, fmt.Errorf("parse notification thresholds %q: %w", thresholdList, err)
	}
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = env.LogPath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = env.Timeout()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = system.New()
	}

	sink, err := logsink.Open(logPath)
	if err != nil {
		return nil, err
	}

	var rec *metrics.Recorder
	if cfg.Registerer != nil {
		rec, err = metrics.NewRecorder(cfg.Registerer)
		if err != nil {
			_ = sink.Close()
			return nil, err
		}
	}

	startTime := cfg.StartTime
	if startTime.IsZero() {
		startTime = clk.Now()
	}

	n := &Notifier{
		mode:      ModeLog,
		system:    systemName,
		logger:    logger,
		clock:     clk,
		sink:      sink,
		gate:      gate.New(thresholds),
		rec:       rec,
		total:     cfg.TotalUnits,
		startTime: startTime,
	}
	if url != "" {
		n.mode = ModeWebhook
		n.client = webhook.New(webhook.Config{
			URL:        url,
			Timeout:    timeout,
			HTTPClient: cfg.HTTPClient,
		})
	}

	// The startup record writes at info in log mode and debug in webhook
	// mode; the sink's Info floor keeps the webhook variant out of the
	// file while still creating it.
	if n.mode == ModeLog {
		sink.Append(zapcore.InfoLevel, fmt.Sprintf(
			"notifier initialized in local-log mode (no webhook URL configured) for system: %s", systemName))
	} else {
		sink.Append(zapcore.DebugLevel, fmt.Sprintf(
			"notifier initialized in webhook mode for system: %s", systemName))
	}

	return n, nil
}

// Notify renders and delivers one notification at the given severity. In
// webhook mode failures are logged to the diagnostic logger and reported
// as false, with exactly one delivery attempt. In local-log mode the call
// always reports true.
func (n *Notifier) Notify(ctx context.Context, level Level, text string, opts ...MessageOption) bool {
	m := newMessage(opts...)

	start := n.clock.Now()
	ok := n.deliver(ctx, level, text, m)
	n.rec.ObserveDelivery(level.String(), string(n.mode), ok, n.clock.Now().Sub(start))
	return ok
}

func (n *Notifier) deliver(ctx context.Context, level Level, text string, m message) bool {
	if n.mode == ModeWebhook {
		payload := renderBlocks(level, text, m, n.system, n.clock.Now())
		if err := n.client.Post(ctx, payload); err != nil {
			n.logger.Error("failed to send notification",
				zap.String("level", level.String()),
				zap.Error(err))
			return false
		}
		return true
	}
	n.sink.Append(level.logLevel(), renderRecord(level, text, m))
	return true
}

// Success sends a SUCCESS notification.
func (n *Notifier) Success(ctx context.Context, text string, opts ...MessageOption) bool {
	return n.Notify(ctx, LevelSuccess, text, opts...)
}

// Warning sends a WARNING notification.
func (n *Notifier) Warning(ctx context.Context, text string, opts ...MessageOption) bool {
	return n.Notify(ctx, LevelWarning, text, opts...)
}

// Error sends an ERROR notification.
func (n *Notifier) Error(ctx context.Context, text string, opts ...MessageOption) bool {
	return n.Notify(ctx, LevelError, text, opts...)
}

// Info sends an INFO notification.
func (n *Notifier) Info(ctx context.Context, text string, opts ...MessageOption) bool {
	return n.Notify(ctx, LevelInfo, text, opts...)
}

// Debug sends a DEBUG notification. In local-log mode the record is
// dropped by the notification log's Info floor, though the call still
// reports true.
func (n *Notifier) Debug(ctx context.Context, text string, opts ...MessageOption) bool {
	return n.Notify(ctx, LevelDebug, text, opts...)
}

// ReportProgress records the outcome of one processed unit and, when a
// progress threshold is newly crossed, emits an INFO summary carrying the
// processed count, error count, processing rate, and elapsed time. The
// error counter moves before the gate is consulted, so failed units are
// counted even when no summary goes out. Returns false only when a summary
// was due and its delivery failed.
func (n *Notifier) ReportProgress(ctx context.Context, succeeded bool) bool {
	if !succeeded {
		n.errors++
	}
	n.rec.UnitReported(succeeded)

	if _, fired := n.gate.Fire(n.processed, n.total); !fired {
		return true
	}
	n.rec.ThresholdFired()

	pct := float64(n.processed) / float64(n.total) * 100
	n.rec.SetProgress(pct)
	elapsedHours := n.clock.Now().Sub(n.startTime).Hours()
	rate := 0.0
	if elapsedHours > 0 {
		rate = float64(n.processed) / elapsedHours
	}

	return n.Info(ctx, fmt.Sprintf("Processing Progress: %.1f%%", pct), WithFields(
		String("Files Processed", fmt.Sprintf("%d / %d", n.processed, n.total)),
		String("Error Files", strconv.Itoa(n.errors)),
		String("Processing Rate", fmt.Sprintf("%.1f files/hour", rate)),
		String("Elapsed Time", fmt.Sprintf("%.2f hours", elapsedHours)),
	))
}

// SetTotal fixes the number of units the run expects to process.
func (n *Notifier) SetTotal(total int) {
	n.total = total
}

// AddProcessed advances the processed counter by delta. The driver owns
// this counter; the Notifier never advances it on its own.
func (n *Notifier) AddProcessed(delta int) {
	n.processed += delta
}

// SetProcessed sets the processed counter outright.
func (n *Notifier) SetProcessed(processed int) {
	n.processed = processed
}

// Total returns the configured unit total.
func (n *Notifier) Total() int {
	return n.total
}

// Processed returns the units reported processed so far.
func (n *Notifier) Processed() int {
	return n.processed
}

// ErrorUnits returns the units reported failed so far.
func (n *Notifier) ErrorUnits() int {
	return n.errors
}

// Thresholds returns the parsed, ascending threshold list.
func (n *Notifier) Thresholds() []int {
	return n.gate.Thresholds()
}

// Mode returns the delivery mode picked at construction.
func (n *Notifier) Mode() Mode {
	return n.mode
}

// Close flushes and closes the notification log. The Notifier must not be
// used afterwards.
func (n *Notifier) Close() error {
	return n.sink.Close()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}
