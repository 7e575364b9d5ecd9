package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/ConserveLee/farm-macro/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger handles application logging to the console and a short in-memory history
type AppLogger struct {
	sugar *zap.SugaredLogger

	mu      sync.Mutex
	history []string
}

// New builds a console logger. Debug output is only emitted when debug is true.
func New(debug bool) (*AppLogger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	config.DisableStacktrace = true
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	base, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewAppLogger(base), nil
}

// NewAppLogger wraps an existing zap logger
func NewAppLogger(base *zap.Logger) *AppLogger {
	return &AppLogger{
		sugar: base.Sugar(),
	}
}

// Nop returns a logger that discards everything but still keeps history
func Nop() *AppLogger {
	return NewAppLogger(zap.NewNop())
}

// Info logs an informational message
func (l *AppLogger) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.sugar.Info(msg)
	l.record("INFO", msg)
}

// Error logs an error message
func (l *AppLogger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.sugar.Error(msg)
	l.record("ERROR", msg)
}

// Debug logs a debug message to the console only (to keep history clean)
func (l *AppLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// History returns a copy of the most recent Info/Error lines
func (l *AppLogger) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.history))
	copy(out, l.history)
	return out
}

// Sync flushes any buffered log entries
func (l *AppLogger) Sync() error {
	return l.sugar.Sync()
}

// record handles the formatting and appending
func (l *AppLogger) record(level, msg string) {
	timestamp := time.Now().Format("15:04:05")
	formattedMsg := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, formattedMsg)

	// Keep history size manageable
	if len(l.history) > constants.LogHistorySize {
		l.history = l.history[len(l.history)-constants.LogHistorySize:]
	}
}
