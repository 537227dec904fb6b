// Package logging provides the diagnostic logger shared by the daqverify tools.
//
// Design: Five-level interface (Error, Warn, Info, Debug, Fatal). Report lines
// (PASS/FAIL, checksum verdicts) are not log messages and are written to the
// tool's report writer instead; the logger carries diagnostics only.
//
// Fatalf behavior: logs at FATAL level and calls the configured FatalHandler.
// The default FatalHandler is a no-op. The command-line tools wire it to set
// their error exit status.
//
// Log format: YYYY/MM/DD HH:MM:SS LEVEL [component] message
//
// Example: 2026/10/15 18:45:13 DEBUG [integrity] loaded 128 events from run7.json
//
// Component namespace prefixes are used for filtering:
//   - [integrity]: log pair discovery and per-record checks
//   - [eventlog]: log document loading
//   - [checksum]: digest computation and validation
//   - [codec]: decoding of compressed artifacts
package logging

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sync/atomic"
)

// ErrFatal is the sentinel error wrapped by fatal conditions.
var ErrFatal = errors.New("fatal error")

// FatalHandler is called when Fatalf is invoked with the formatted message.
//
// Contract: FatalHandler must not call Fatalf.
type FatalHandler func(msg string)

// Level represents the logging level.
type Level int

const (
	// LevelError logs only errors.
	LevelError Level = iota
	// LevelWarn logs warnings and errors.
	LevelWarn
	// LevelInfo logs info, warnings, and errors.
	LevelInfo
	// LevelDebug logs everything including debug messages.
	LevelDebug
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the interface for diagnostic logging.
//
// Implementations must be safe for concurrent use.
type Logger interface {
	// Errorf logs a formatted error message.
	Errorf(format string, args ...any)

	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)

	// Infof logs a formatted informational message.
	Infof(format string, args ...any)

	// Debugf logs a formatted debug message.
	Debugf(format string, args ...any)

	// Fatalf logs a fatal error and triggers the fatal handler.
	Fatalf(format string, args ...any)
}

// DefaultLogger writes leveled messages to an io.Writer.
// Level is read-only after construction.
type DefaultLogger struct {
	logger       *log.Logger
	level        Level
	fatalHandler atomic.Pointer[FatalHandler]
}

// NewDefaultLogger creates a logger writing to stderr at the given level.
func NewDefaultLogger(level Level) *DefaultLogger {
	return NewLogger(os.Stderr, level)
}

// NewLogger creates a logger with the specified output and level.
func NewLogger(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

// SetFatalHandler sets the handler called when Fatalf is invoked.
func (l *DefaultLogger) SetFatalHandler(h FatalHandler) {
	l.fatalHandler.Store(&h)
}

// Level returns the logging level.
func (l *DefaultLogger) Level() Level {
	return l.level
}

// Errorf logs a formatted error message.
func (l *DefaultLogger) Errorf(format string, args ...any) {
	if l.level >= LevelError {
		_ = l.logger.Output(2, "ERROR "+fmt.Sprintf(format, args...))
	}
}

// Warnf logs a formatted warning message.
func (l *DefaultLogger) Warnf(format string, args ...any) {
	if l.level >= LevelWarn {
		_ = l.logger.Output(2, "WARN "+fmt.Sprintf(format, args...))
	}
}

// Infof logs a formatted informational message.
func (l *DefaultLogger) Infof(format string, args ...any) {
	if l.level >= LevelInfo {
		_ = l.logger.Output(2, "INFO "+fmt.Sprintf(format, args...))
	}
}

// Debugf logs a formatted debug message.
func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		_ = l.logger.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
	}
}

// Fatalf logs a fatal error and triggers the fatal handler.
// Fatal messages are never filtered by level.
func (l *DefaultLogger) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_ = l.logger.Output(2, "FATAL "+msg)

	if h := l.fatalHandler.Load(); h != nil {
		(*h)(msg)
	}
}

// Namespace prefixes for log messages.
const (
	// NSIntegrity is the namespace for log pair discovery and checks.
	NSIntegrity = "[integrity] "
	// NSEventLog is the namespace for log document loading.
	NSEventLog = "[eventlog] "
	// NSChecksum is the namespace for digest computation.
	NSChecksum = "[checksum] "
	// NSCodec is the namespace for compressed artifact decoding.
	NSCodec = "[codec] "
)

// IsNil returns true if the logger is nil or a typed-nil.
//
//	var l *MyLogger = nil
//	opts.Logger = l  // interface is not nil, but underlying pointer is
func IsNil(l Logger) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// OrDefault returns l if it is usable, otherwise the Discard logger.
// Library code never logs to stderr unless a caller asked for it.
func OrDefault(l Logger) Logger {
	if IsNil(l) {
		return Discard
	}
	return l
}
