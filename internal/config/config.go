// Package config resolves notifier settings from the process environment
// via Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Environment variables honored by FromEnv. The names are fixed by the
// deployment contract, so no prefix or key replacer is applied.
const (
	EnvWebhookURL = "SLACK_WEBHOOK_URL"
	EnvSystemName = "SYSTEM_NAME"
	EnvThresholds = "NOTIFICATION_PERCENTAGES"
	EnvLogPath    = "NOTIFICATION_LOG_PATH"
	EnvTimeout    = "NOTIFICATION_TIMEOUT_SECONDS"
)

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultThresholds     = "20,100"
	DefaultLogPath        = "notifications.log"
	DefaultTimeoutSeconds = 10
)

// Values captures the environment-resolved notifier settings. Thresholds
// stays a raw comma-separated string here; parsing it is the notifier's
// job so the hard failure lands at construction.
type Values struct {
	WebhookURL     string `mapstructure:"webhook_url"`
	SystemName     string `mapstructure:"system_name"`
	Thresholds     string `mapstructure:"thresholds"`
	LogPath        string `mapstructure:"log_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// FromEnv builds Values from the process environment, falling back to
// defaults for unset knobs.
func FromEnv() (Values, error) {
	v := viper.New()
	bindEnv(v)
	setDefaults(v)

	var vals Values
	if err := v.Unmarshal(&vals); err != nil {
		return Values{}, fmt.Errorf("unmarshal notifier config: %w", err)
	}

	if err := vals.Validate(); err != nil {
		return Values{}, err
	}

	return vals, nil
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("webhook_url", EnvWebhookURL)
	_ = v.BindEnv("system_name", EnvSystemName)
	_ = v.BindEnv("thresholds", EnvThresholds)
	_ = v.BindEnv("log_path", EnvLogPath)
	_ = v.BindEnv("timeout_seconds", EnvTimeout)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("thresholds", DefaultThresholds)
	v.SetDefault("log_path", DefaultLogPath)
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
}

// Validate enforces required values and reasonable limits.
func (v Values) Validate() error {
	if v.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0")
	}
	if v.LogPath == "" {
		return fmt.Errorf("log_path must not be empty")
	}
	return nil
}

// Timeout converts the configured timeout into a duration for the webhook
// client.
func (v Values) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}
