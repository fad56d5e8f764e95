package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog.Logger with convenience methods
type Logger struct {
	logger zerolog.Logger
}

// New creates a logger writing to stdout. Development gets a console
// writer and debug level, everything else JSON at info level.
func New(env string) *Logger {
	return NewWithWriter(env, "", os.Stdout)
}

// NewWithLevel is New with an explicit level name ("debug", "warn", ...).
// An empty or unknown level falls back to the environment default.
func NewWithLevel(env, level string) *Logger {
	return NewWithWriter(env, level, os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(env, level string, w io.Writer) *Logger {
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl := zerolog.InfoLevel
	if env == "development" {
		lvl = zerolog.DebugLevel
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}

	return &Logger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger(),
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *Logger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *Logger) Infof(format string, v ...any) {
	l.logger.Info().Msgf(format, v...)
}

func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *Logger) Warnf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

// Error logs msg with err attached
func (l *Logger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

func (l *Logger) Errorf(err error, format string, v ...any) {
	l.logger.Error().Err(err).Msgf(format, v...)
}

// Fatal logs and exits the process
func (l *Logger) Fatal(msg string, err error) {
	l.logger.Fatal().Err(err).Msg(msg)
}

// With returns a child logger with one extra field
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger with several extra fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{logger: l.logger.With().Fields(fields).Logger()}
}

// SetGlobalLogger makes l the package-level zerolog logger
func SetGlobalLogger(l *Logger) {
	log.Logger = l.logger
}
