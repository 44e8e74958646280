// Package log provides logging routines based on slog package.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type LogLevel = slog.Level

const (
	DebugLevel = slog.LevelDebug
	InfoLevel  = slog.LevelInfo
	WarnLevel  = slog.LevelWarn
	ErrorLevel = slog.LevelError
)

// Option is a logger option.
type Option func(*options)

type options struct {
	level LogLevel
	json  bool
	w     io.Writer
}

func defaultOptions() *options {
	return &options{
		level: WarnLevel,
		json:  false,
		w:     os.Stderr,
	}
}

// WithDevMode logs in human-readable format at DebugLevel.
func WithDevMode() Option {
	return func(o *options) {
		o.json = false
		o.level = DebugLevel
	}
}

// WithLevel sets the log level.
// The default log level is WarnLevel so that a CLI run stays quiet.
func WithLevel(level LogLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithJSON switches to the JSON handler.
func WithJSON(json bool) Option {
	return func(o *options) {
		o.json = json
	}
}

// WithWriter sets the log destination. The default is stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.w = w
	}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level.
func ParseLevel(s string) (LogLevel, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Init installs the default logger.
func Init(opts ...Option) {
	sOpts := defaultOptions()
	for _, opt := range opts {
		opt(sOpts)
	}

	replace := func(groups []string, a slog.Attr) slog.Attr {
		// Remove the directory from the source's filename.
		if a.Key == slog.SourceKey {
			if s, ok := a.Value.Any().(*slog.Source); ok {
				s.File = filepath.Base(s.File)
			}
		}
		return a
	}
	hOpts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       sOpts.level,
		ReplaceAttr: replace,
	}

	var handler slog.Handler = slog.NewTextHandler(sOpts.w, hOpts)
	if sOpts.json {
		handler = slog.NewJSONHandler(sOpts.w, hOpts)
	}
	slog.SetDefault(slog.New(handler))
}

// Disable discards all log output.
func Disable() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// With returns the default logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}

func logf(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip [Callers, logf, Infof]
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	_ = logger.Handler().Handle(ctx, r)
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}
