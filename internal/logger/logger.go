package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the logging sink handed to the pipeline, the API and the CLI.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
}

// Fields is a set of structured key/value pairs.
type Fields map[string]interface{}

// Level is a log level name accepted by logrus.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format selects the log line encoding.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// Config controls where and how log lines are written.
type Config struct {
	Level  Level  `yaml:"level"`
	Format Format `yaml:"format"`
	// File, when set, receives a copy of every line in addition to stderr.
	File       string `yaml:"file"`
	CallerInfo bool   `yaml:"caller_info"`
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() Config {
	return Config{Level: InfoLevel, Format: TextFormat}
}

// Validate checks level and format names.
func (c Config) Validate() error {
	switch c.Level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
	default:
		return fmt.Errorf("invalid log level: %q", c.Level)
	}
	switch c.Format {
	case TextFormat, JSONFormat:
	default:
		return fmt.Errorf("invalid log format: %q", c.Format)
	}
	return nil
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New builds a logrus-backed Logger writing to stderr and, optionally, a file.
func New(cfg Config) (Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit console writer.
func NewWithWriter(cfg Config, console io.Writer) (Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := logrus.New()
	level, err := logrus.ParseLevel(string(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	out := console
	if strings.TrimSpace(cfg.File) != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(console, f)
	}
	l.SetOutput(out)
	l.SetFormatter(formatter(cfg))
	l.SetReportCaller(cfg.CallerInfo)

	return &logrusLogger{entry: logrus.NewEntry(l)}, nil
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func formatter(cfg Config) logrus.Formatter {
	caller := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}
	if cfg.Format == JSONFormat {
		return &logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			CallerPrettyfier: caller,
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		CallerPrettyfier: caller,
	}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}
