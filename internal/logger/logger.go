// Package logger provides the developer-facing log for pickr.
//
// User-visible failures never go through here; they surface as toasts or
// sidebar panels. This log is for diagnosing the tool itself.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config holds logger settings.
type Config struct {
	// LogLevel is the minimum level: debug, info, warn or error.
	LogLevel string `toml:"level"`
	// LogFilePath is the output file. Empty or "-" means stderr.
	LogFilePath string `toml:"file"`
}

// NewConfig returns the default logger configuration.
func NewConfig() Config {
	return Config{LogLevel: "info"}
}

var (
	mu  sync.RWMutex
	log = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Init configures the package logger. The returned closer releases the log
// file, if one was opened.
func Init(cfg Config) (io.Closer, error) {
	l := newDefault()
	l.SetLevel(parseLevel(cfg.LogLevel))

	var closer io.Closer = nopCloser{}
	if path := cfg.LogFilePath; path != "" && path != "-" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
		}
		l.SetOutput(f)
		closer = f
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return closer, nil
}

// SetOutput redirects the log, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(w)
}

// L returns the underlying logger.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With returns an entry carrying a component field.
func With(component string) *logrus.Entry {
	return L().WithField("component", component)
}

func Debugf(format string, args ...any) { L().Debugf(format, args...) }
func Infof(format string, args ...any)  { L().Infof(format, args...) }
func Warnf(format string, args ...any)  { L().Warnf(format, args...) }
func Errorf(format string, args ...any) { L().Errorf(format, args...) }

func parseLevel(s string) logrus.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error", "err":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
