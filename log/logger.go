package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level represents logging severity.
type Level int

const (
	// LevelDebug for detailed debugging information
	LevelDebug Level = iota
	// LevelInfo for general informational messages
	LevelInfo
	// LevelWarn for warning messages
	LevelWarn
	// LevelError for error messages
	LevelError
	// LevelNone disables all logging
	LevelNone
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// Logger is the logging interface used across the workflow packages.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// DefaultLogger implements Logger on top of Go's standard log package. It
// tags each line with its level and drops lines below the configured one.
type DefaultLogger struct {
	out   *log.Logger
	level Level
}

// NewDefaultLogger writes leveled lines to out, or to stderr when out is nil.
func NewDefaultLogger(out io.Writer, level Level) *DefaultLogger {
	if out == nil {
		out = os.Stderr
	}
	return &DefaultLogger{
		out:   log.New(out, "[reflective] ", log.LstdFlags),
		level: level,
	}
}

func (l *DefaultLogger) printf(at Level, format string, v ...any) {
	if at < l.level {
		return
	}
	l.out.Printf("["+at.String()+"] "+format, v...)
}

func (l *DefaultLogger) Debug(format string, v ...any) { l.printf(LevelDebug, format, v...) }
func (l *DefaultLogger) Info(format string, v ...any)  { l.printf(LevelInfo, format, v...) }
func (l *DefaultLogger) Warn(format string, v ...any)  { l.printf(LevelWarn, format, v...) }
func (l *DefaultLogger) Error(format string, v ...any) { l.printf(LevelError, format, v...) }

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}

var defaultLogger Logger = NewDefaultLogger(nil, LevelInfo)

// SetDefaultLogger sets the package-level logger used when a component is
// built without one of its own.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the current package-level logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetLogLevel replaces the package-level logger with a stderr logger at the
// given level.
func SetLogLevel(level Level) {
	defaultLogger = NewDefaultLogger(nil, level)
}
