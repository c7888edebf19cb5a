package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/voskcore/internal/env"
)

type options struct {
	level     slog.Level
	logToFile bool
	logFile   string
	maxSizeMB int
	stdout    io.Writer
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithLogToFile also writes logs to a rotated file.
func WithLogToFile(enabled bool) Option {
	return func(o *options) { o.logToFile = enabled }
}

// WithLogFile sets the rotated log file path.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithMaxSize sets the size in megabytes at which the log file is rotated.
func WithMaxSize(mb int) Option {
	return func(o *options) { o.maxSizeMB = mb }
}

// WithOutput replaces stderr as the console output.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// New creates a logger for environment e. Development logs are colored text
// through tint; production logs are JSON. File output, when enabled, is
// always JSON.
func New(e env.Environment, opts ...Option) *slog.Logger {
	o := &options{
		level:     slog.LevelInfo,
		logFile:   "logs/voskcore.log",
		maxSizeMB: 50,
		stdout:    os.Stderr,
	}
	if !e.IsProduction() {
		o.level = slog.LevelDebug
	}
	for _, opt := range opts {
		opt(o)
	}

	var console slog.Handler
	if e.IsProduction() {
		console = slog.NewJSONHandler(o.stdout, &slog.HandlerOptions{Level: o.level})
	} else {
		console = tint.NewHandler(o.stdout, &tint.Options{
			Level:      o.level,
			TimeFormat: time.Kitchen,
		})
	}

	if !o.logToFile {
		return slog.New(console)
	}

	file := &lumberjack.Logger{
		Filename:   o.logFile,
		MaxSize:    o.maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: o.level})

	return slog.New(fanout{console, fileHandler})
}
