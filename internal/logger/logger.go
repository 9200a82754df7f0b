// Package logger wraps logrus with the settings used across the migrator.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields is an alias so callers do not import logrus for structured fields.
type Fields = logrus.Fields

// Logger is a wrapper around logrus.Logger.
type Logger struct {
	*logrus.Logger
}

// New creates a logger writing text to stderr at info level.
// Stdout is left for command output such as tables and JSON.
func New() *Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	log.SetLevel(logrus.InfoLevel)

	return &Logger{Logger: log}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	l := New()
	l.SetOutput(io.Discard)

	return l
}

// SetLevel sets the logging level. Unknown names fall back to info.
func (l *Logger) SetLevel(level string) {
	switch level {
	case "debug":
		l.Logger.SetLevel(logrus.DebugLevel)
	case "info":
		l.Logger.SetLevel(logrus.InfoLevel)
	case "warn":
		l.Logger.SetLevel(logrus.WarnLevel)
	case "error":
		l.Logger.SetLevel(logrus.ErrorLevel)
	default:
		l.Logger.SetLevel(logrus.InfoLevel)
	}
}

// SetFormat switches between "text" and "json" output.
func (l *Logger) SetFormat(format string) {
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// WithFields returns an entry carrying the given fields.
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}
