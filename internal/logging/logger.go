package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the name of the active log file inside the log directory.
const LogFileName = "groupspin.log"

// Standard attribute keys. The aggregator lifts these out of each entry.
const (
	KeySession     = "session_id"
	KeyRun         = "run_id"
	KeyParticipant = "participant"
	KeyComponent   = "component"
)

// Options configure a file-backed Logger.
type Options struct {
	// Dir is the directory holding LogFileName and its rotated backups.
	Dir string
	// Level is one of ValidLevels; unknown values mean INFO.
	Level string
	// Rotation controls size-based rotation of the log file.
	Rotation RotationConfig
}

// Logger provides structured JSON logging. Child loggers created with the
// With* methods share the parent's output. It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    *sharedCloser
}

// sharedCloser closes the underlying writer once, no matter how many child
// loggers call Close.
type sharedCloser struct {
	once sync.Once
	c    io.Closer
	err  error
}

func (s *sharedCloser) Close() error {
	if s == nil || s.c == nil {
		return nil
	}
	s.once.Do(func() { s.err = s.c.Close() })
	return s.err
}

// New creates a Logger writing to {opts.Dir}/groupspin.log through a
// RotatingWriter.
func New(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	rw, err := NewRotatingWriter(filepath.Join(opts.Dir, LogFileName), opts.Rotation)
	if err != nil {
		return nil, err
	}
	l := NewWriterLogger(rw, opts.Level)
	l.out = &sharedCloser{c: rw}
	return l, nil
}

// NewLogger creates a file-backed Logger in dir with the default rotation
// settings.
func NewLogger(dir string, level string) (*Logger, error) {
	return New(Options{Dir: dir, Level: level, Rotation: DefaultRotationConfig()})
}

// NewWriterLogger creates a Logger that writes JSON lines to w. Close does
// not close w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
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

// WithSession returns a child Logger tagging every entry with the session ID.
func (l *Logger) WithSession(sessionID string) *Logger {
	return l.With(KeySession, sessionID)
}

// WithRun returns a child Logger tagging every entry with an animation run.
func (l *Logger) WithRun(runID uint64) *Logger {
	return l.With(KeyRun, runID)
}

// WithParticipant returns a child Logger tagging every entry with a
// participant name.
func (l *Logger) WithParticipant(name string) *Logger {
	return l.With(KeyParticipant, name)
}

// WithComponent returns a child Logger tagging every entry with the emitting
// component ("session", "roulette", "tui", ...).
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(KeyComponent, name)
}

// With returns a child Logger with arbitrary key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{
		logger: l.logger.With(args...),
		out:    l.out,
	}
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level string) bool {
	return l.logger.Enabled(context.Background(), parseLevel(level))
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Close flushes and closes the log file. Loggers built with NewWriterLogger
// or NopLogger have nothing to close.
func (l *Logger) Close() error {
	return l.out.Close()
}

// NopLogger returns a Logger that discards all output.
func NopLogger() *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// ParseLevel normalizes a level string, returning LevelInfo when it is not
// recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// IsValidLevel reports whether level names a supported level.
func IsValidLevel(level string) bool {
	for _, v := range ValidLevels() {
		if strings.EqualFold(level, v) {
			return true
		}
	}
	return false
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
