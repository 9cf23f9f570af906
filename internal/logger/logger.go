// Package logger writes structured JSON lines to a rotated file. The TUI
// owns stdout, so nothing is logged to the terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged
type Options struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
	closer io.Closer
)

// Init replaces the package logger. An empty File disables logging.
func Init(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		_ = closer.Close()
		closer = nil
	}

	if opts.File == "" {
		logger = zerolog.Nop()
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	closer = w
	logger = New(w, level)
	return nil
}

// New builds a logger on any writer; tests pass a buffer
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetOutput points the package logger at w, e.g. a test buffer
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = New(w, level)
}

// ParseLevel maps a config level to zerolog, defaulting to info
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Close flushes and closes the log file
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.Nop()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Debugf logs at debug level
func Debugf(format string, args ...any) {
	get().Debug().Msgf(format, args...)
}

// Infof logs at info level
func Infof(format string, args ...any) {
	get().Info().Msgf(format, args...)
}

// Warnf logs at warn level
func Warnf(format string, args ...any) {
	get().Warn().Msgf(format, args...)
}

// Errorf logs at error level
func Errorf(format string, args ...any) {
	get().Error().Msgf(format, args...)
}

// Timed logs how long fn took at debug level, plus its error if any
func Timed(what string, fn func() error) error {
	start := time.Now()
	err := fn()
	e := get().Debug()
	if err != nil {
		e = get().Error().Err(err)
	}
	e.Dur("took", time.Since(start)).Msg(what)
	return err
}
