package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process wide logger. It is a no-op logger until Init is called,
// so packages can log from tests without any setup.
var Log = zap.NewNop()

// Init installs a production logger at info level
func Init() {
	if err := InitWithConfig("info", false); err != nil {
		Log = zap.NewNop()
	}
}

// InitWithConfig installs a logger with the given level name ("debug", "info",
// "warn", "error"). Development mode switches to the console encoder.
func InitWithConfig(level string, development bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("unknown log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	_ = Log.Sync()
}
