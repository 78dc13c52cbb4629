package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AspirinCode/ODesign/config"
)

// Logger defines the logging interface
type Logger interface {
	// Error logs an error message
	Error(msg string, args ...interface{})
	// Warn logs a warning message
	Warn(msg string, args ...interface{})
	// Info logs an informational message
	Info(msg string, args ...interface{})
	// Debug logs a debug message
	Debug(msg string, args ...interface{})
	// Verbose logs a verbose/trace message
	Verbose(msg string, args ...interface{})

	// With returns a new logger with additional context fields
	With(key string, value interface{}) Logger
	// WithFields returns a new logger with multiple context fields
	WithFields(fields map[string]interface{}) Logger
}

// levelRank maps a level to its position in the verbosity hierarchy. Unknown
// levels rank as silent so misconfigured loggers stay quiet rather than noisy.
func levelRank(level config.LogLevel) int {
	switch level {
	case config.LogLevelError:
		return 1
	case config.LogLevelWarn:
		return 2
	case config.LogLevelInfo:
		return 3
	case config.LogLevelDebug:
		return 4
	case config.LogLevelVerbose:
		return 5
	default:
		return 0
	}
}

// DefaultLogger is the default logger implementation
type DefaultLogger struct {
	mu         sync.Mutex
	cfg        *config.LoggerConfig
	writer     io.Writer
	fields     map[string]interface{}
	addSource  bool
	timeFormat string
}

// NewLogger creates a new logger with the given configuration
func NewLogger(cfg *config.LoggerConfig) Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// NewLoggerWithWriter creates a logger with a custom writer (useful for testing)
func NewLoggerWithWriter(cfg *config.LoggerConfig, writer io.Writer) Logger {
	if cfg == nil {
		cfg = &config.LoggerConfig{}
	}
	cfg.ApplyDefaults()

	return &DefaultLogger{
		cfg:        cfg,
		writer:     writer,
		fields:     make(map[string]interface{}),
		addSource:  cfg.AddSource,
		timeFormat: cfg.TimeFormat,
	}
}

// shouldLog checks if a message at the given level should be logged
func (l *DefaultLogger) shouldLog(level config.LogLevel) bool {
	if l.cfg.Level == config.LogLevelSilent {
		return false
	}
	return levelRank(level) <= levelRank(l.cfg.Level)
}

// log is the internal logging method
func (l *DefaultLogger) log(level config.LogLevel, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var out strings.Builder

	// Timestamp if configured
	if l.timeFormat != "" {
		out.WriteString(time.Now().Format(l.timeFormat))
		out.WriteByte(' ')
	}

	fmt.Fprintf(&out, "[%s] ", level)

	// Source information if configured. Caller depth 2 skips log and the
	// exported level method.
	if l.addSource {
		if _, file, line, ok := runtime.Caller(2); ok {
			fmt.Fprintf(&out, "%s:%d ", file, line)
		}
	}

	// Context fields, sorted by key so output is stable
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out.WriteByte('[')
		for i, k := range keys {
			if i > 0 {
				out.WriteString(", ")
			}
			fmt.Fprintf(&out, "%s=%v", k, l.fields[k])
		}
		out.WriteString("] ")
	}

	if len(args) > 0 {
		fmt.Fprintf(&out, msg, args...)
	} else {
		out.WriteString(msg)
	}
	out.WriteByte('\n')

	fmt.Fprint(l.writer, out.String())
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	l.log(config.LogLevelError, msg, args...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	l.log(config.LogLevelWarn, msg, args...)
}

// Info logs an informational message
func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	l.log(config.LogLevelInfo, msg, args...)
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	l.log(config.LogLevelDebug, msg, args...)
}

// Verbose logs a verbose/trace message
func (l *DefaultLogger) Verbose(msg string, args ...interface{}) {
	l.log(config.LogLevelVerbose, msg, args...)
}

// With returns a new logger with an additional context field
func (l *DefaultLogger) With(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new logger with multiple context fields
func (l *DefaultLogger) WithFields(fields map[string]interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &DefaultLogger{
		cfg:        l.cfg,
		writer:     l.writer,
		fields:     newFields,
		addSource:  l.addSource,
		timeFormat: l.timeFormat,
	}
}

// NoOpLogger is a logger that does nothing (useful for testing or when logging is disabled)
type NoOpLogger struct{}

// NewNoOpLogger creates a no-op logger
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) Error(msg string, args ...interface{})           {}
func (n *NoOpLogger) Warn(msg string, args ...interface{})            {}
func (n *NoOpLogger) Info(msg string, args ...interface{})            {}
func (n *NoOpLogger) Debug(msg string, args ...interface{})           {}
func (n *NoOpLogger) Verbose(msg string, args ...interface{})         {}
func (n *NoOpLogger) With(key string, value interface{}) Logger       { return n }
func (n *NoOpLogger) WithFields(fields map[string]interface{}) Logger { return n }
