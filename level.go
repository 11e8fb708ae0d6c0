package notify

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Level denotes the severity of a notification.
type Level int

// Supported notification severities.
const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
	LevelInfo
	LevelDebug
)

// levelTable fixes the presentation glyph, display name, and notification
// log level per severity.
var levelTable = [...]struct {
	name  string
	glyph string
	log   zapcore.Level
}{
	LevelSuccess: {"SUCCESS", "✅", zapcore.InfoLevel},
	LevelWarning: {"WARNING", "⚠️", zapcore.WarnLevel},
	LevelError:   {"ERROR", "❌", zapcore.ErrorLevel},
	LevelInfo:    {"INFO", "ℹ️", zapcore.InfoLevel},
	LevelDebug:   {"DEBUG", "🔍", zapcore.DebugLevel},
}

func (l Level) valid() bool {
	return l >= 0 && int(l) < len(levelTable)
}

// String returns the severity name as it appears in rendered notifications.
func (l Level) String() string {
	if !l.valid() {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelTable[l].name
}

// Glyph returns the symbol prefixed to rendered notifications.
func (l Level) Glyph() string {
	if !l.valid() {
		return ""
	}
	return levelTable[l].glyph
}

// logLevel maps the severity onto the notification log. Unknown severities
// write at info, the same channel success and info share.
func (l Level) logLevel() zapcore.Level {
	if !l.valid() {
		return zapcore.InfoLevel
	}
	return levelTable[l].log
}
