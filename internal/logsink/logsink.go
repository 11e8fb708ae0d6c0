// Package logsink writes notification records to a dedicated append-only
// log file through a zap core.
package logsink

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// timeLayout prefixes each record with millisecond resolution, comma
// separated in the classic logging style.
const timeLayout = "2006-01-02 15:04:05,000"

// Sink appends notification records to a log file. Each record carries a
// timestamp and severity prefix and is followed by a blank line so
// multi-line bodies stay readable:
//
//	2025-03-02 10:04:05,123 - INFO - ✅ SUCCESS: import finished
//
// The sink writes at Info and above, so records logged at debug severity
// are dropped rather than appended.
type Sink struct {
	logger *zap.Logger
	file   *os.File
}

// Open creates the notification log at path if needed and returns a sink
// appending to it.
func Open(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create notification log dir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open notification log %s: %w", path, err)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(f),
		zapcore.InfoLevel,
	)
	return &Sink{logger: zap.New(core), file: f}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       "\n\n",
		EncodeLevel:      levelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		ConsoleSeparator: " - ",
	}
}

// levelEncoder writes severity names in the classic logging spelling, where
// warnings read WARNING rather than zap's WARN.
func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == zapcore.WarnLevel {
		enc.AppendString("WARNING")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

// Append writes one record at the given level. Multi-line records keep
// their internal newlines; the encoder terminates the record with one more.
func (s *Sink) Append(level zapcore.Level, record string) {
	s.logger.Log(level, record)
}

// Sync flushes buffered records to disk.
func (s *Sink) Sync() error {
	return s.logger.Sync()
}

// Close flushes pending records and closes the underlying file.
func (s *Sink) Close() error {
	syncErr := s.logger.Sync()
	closeErr := s.file.Close()
	if syncErr != nil {
		return fmt.Errorf("sync notification log: %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close notification log: %w", closeErr)
	}
	return nil
}
