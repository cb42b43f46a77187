// Package logging is the subsystem-tagged logger used throughout ddalabctl.
// In CLI mode entries go to an slog text handler; in TUI mode they are
// delivered on a channel that feeds the dashboard's activity log.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEntry is the structured log entry passed to the TUI.
type LogEntry struct {
	Timestamp  time.Time
	Level      LogLevel
	Subsystem  string
	Message    string
	Err        error
	Attributes []slog.Attr
}

// AttrString renders the attributes as space separated key=value pairs.
func (e LogEntry) AttrString() string {
	var out string
	for i, a := range e.Attributes {
		if i > 0 {
			out += " "
		}
		out += a.Key + "=" + a.Value.String()
	}
	return out
}

const tuiChannelBufferSize = 2048

// sink is where entries go. Commands log from their own goroutines, so the
// switch between modes and the channel close are guarded.
type sink struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	tuiCh    chan LogEntry
	minLevel LogLevel
}

var current = &sink{}

// InitForTUI initializes the logging system for TUI mode.
// It sets up a channel that the TUI will listen to for log entries.
func InitForTUI(filterLevel LogLevel) <-chan LogEntry {
	ch := make(chan LogEntry, tuiChannelBufferSize)

	current.mu.Lock()
	defer current.mu.Unlock()
	current.tuiCh = ch
	current.minLevel = filterLevel
	// The alt screen hides stderr; slog calls made outside this package are
	// discarded.
	current.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: filterLevel.SlogLevel()}))
	slog.SetDefault(current.logger)
	return ch
}

// InitForCLI initializes the logging system for CLI mode.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	current.mu.Lock()
	defer current.mu.Unlock()
	if current.tuiCh != nil {
		close(current.tuiCh)
		current.tuiCh = nil
	}
	current.minLevel = filterLevel
	current.logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: filterLevel.SlogLevel()}))
	slog.SetDefault(current.logger)
}

// CloseTUIChannel closes the TUI log channel. Later entries fall back to
// slog's default logger. Should be called on application shutdown.
func CloseTUIChannel() {
	current.mu.Lock()
	defer current.mu.Unlock()
	if current.tuiCh != nil {
		close(current.tuiCh)
		current.tuiCh = nil
		current.logger = nil
	}
}

func (s *sink) log(level LogLevel, subsystem string, err error, attrs []slog.Attr, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.tuiCh != nil {
		if level < s.minLevel {
			return
		}
		entry := LogEntry{
			Timestamp:  time.Now(),
			Level:      level,
			Subsystem:  subsystem,
			Message:    msg,
			Err:        err,
			Attributes: attrs,
		}
		// Drop rather than block the caller once the TUI stops draining.
		select {
		case s.tuiCh <- entry:
		default:
		}
		return
	}

	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}
	slogAttrs := make([]slog.Attr, 0, len(attrs)+2)
	slogAttrs = append(slogAttrs, slog.String("subsystem", subsystem))
	slogAttrs = append(slogAttrs, attrs...)
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}
	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	current.log(LevelDebug, subsystem, nil, nil, messageFmt, args...)
}

// DebugAttrs logs a debug message carrying structured attributes, such as
// the method, path and request id of a backend call.
func DebugAttrs(subsystem string, msg string, attrs ...slog.Attr) {
	current.log(LevelDebug, subsystem, nil, attrs, msg)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	current.log(LevelInfo, subsystem, nil, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	current.log(LevelWarn, subsystem, nil, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	current.log(LevelError, subsystem, err, nil, messageFmt, args...)
}
