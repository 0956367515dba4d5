package lottery

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// DefaultLogger implements Logger on top of a logrus logger
type DefaultLogger struct {
	entry *log.Entry
}

// NewDefaultLogger creates a logger writing text lines to stderr at the given level.
// An unknown level falls back to info.
func NewDefaultLogger(level string) *DefaultLogger {
	return NewDefaultLoggerWithOutput(os.Stderr, level)
}

// NewDefaultLoggerWithOutput creates a logger writing to w
func NewDefaultLoggerWithOutput(w io.Writer, level string) *DefaultLogger {
	l := log.New()
	l.SetOutput(w)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	return &DefaultLogger{entry: log.NewEntry(l).WithField("component", "lottopick")}
}

// WithField returns a logger that tags every line with key=value
func (l *DefaultLogger) WithField(key string, value any) *DefaultLogger {
	return &DefaultLogger{entry: l.entry.WithField(key, value)}
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	l.entry.Infof(msg, args...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	l.entry.Errorf(msg, args...)
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	l.entry.Debugf(msg, args...)
}

// SilentLogger implements Logger interface but does not output any logs.
// Useful in tests where log output is not desired.
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

// Info does nothing
func (l *SilentLogger) Info(msg string, args ...any) {}

// Error does nothing
func (l *SilentLogger) Error(msg string, args ...any) {}

// Debug does nothing
func (l *SilentLogger) Debug(msg string, args ...any) {}
