// Package logger builds the process-wide slog handler.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/voxengine/voxengine/internal/envvar"
)

// Environment names understood by New.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type options struct {
	logToFile bool
	logFile   string
	level     slog.Level
}

// Option configures the logger.
type Option func(*options)

// WithLogToFile enables writing logs to a rotated file in addition to stderr.
func WithLogToFile(enabled bool) Option {
	return func(o *options) { o.logToFile = enabled }
}

// WithLogFile sets the rotated log file path.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithLevel overrides the level derived from VOXENGINE_LOG_LEVEL.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// FromEnv returns the environment name from VOXENGINE_ENV, defaulting to
// development.
func FromEnv() string {
	if env := os.Getenv(envvar.VoxEngineEnv); env != "" {
		return env
	}
	return EnvDevelopment
}

// New builds a slog.Logger for the given environment. Development gets a
// colorized console handler; anything else gets JSON, optionally rotated to
// a file.
func New(environment string, opts ...Option) *slog.Logger {
	o := options{
		logFile: "logs/voxengine.log",
		level:   LevelFromEnv(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var out io.Writer = os.Stderr
	if o.logToFile {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	if environment == EnvDevelopment {
		return slog.New(tint.NewHandler(out, &tint.Options{
			Level:      o.level,
			TimeFormat: time.Kitchen,
		}))
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: o.level}))
}

// LevelFromEnv parses VOXENGINE_LOG_LEVEL, defaulting to info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(envvar.VoxEngineLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
