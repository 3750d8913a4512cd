// Package logger configures slog for the diagram tools and carries loggers
// and log attributes through a context.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// subsystem is the default value of the "subsystem" attribute.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions, which replaces global loggers.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

const (
	loggerKey    contextKey = "logger"
	valuesKey    contextKey = "loggerValues"
	subsystemKey contextKey = "subsystem"
	muteKey      contextKey = "mute"
)

var (
	// ErrInvalidLogLevel is returned when LOG_LEVEL cannot be parsed.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogOutput is returned when LOG_OUTPUT names an unknown destination.
	ErrInvalidLogOutput = errors.New("invalid log output")
)

// Options is used to configure logging.
type Options struct {
	Subsystem string
	JSON      bool
	MinLevel  slog.Level
	Output    io.Writer
}

// ConfigureLoggingWithOptions installs a text or JSON handler as the default
// slog logger and redirects the legacy log package into it.
// It returns the default logger.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	handler = &slogErrorLogger{inner: handler}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	def := log.Default()
	*def = *slog.NewLogLogger(handler, slog.LevelInfo)

	subsystem.Store(opts.Subsystem)

	return logger
}

// OptionsFromEnv reads LOG_JSON, LOG_LEVEL and LOG_OUTPUT on top of the
// given defaults. Unset variables keep the default.
func OptionsFromEnv(defaults Options) (Options, error) {
	opts := defaults

	if raw, ok := os.LookupEnv("LOG_JSON"); ok && raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("LOG_JSON: %w", err)
		}

		opts.JSON = v
	}

	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok && raw != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return opts, fmt.Errorf("%w: %q", ErrInvalidLogLevel, raw)
		}

		opts.MinLevel = level
	}

	if raw, ok := os.LookupEnv("LOG_OUTPUT"); ok && raw != "" {
		switch strings.ToLower(raw) {
		case "stdout":
			opts.Output = os.Stdout
		case "stderr":
			opts.Output = os.Stderr
		default:
			return opts, fmt.Errorf("%w: %q", ErrInvalidLogOutput, raw)
		}
	}

	return opts, nil
}

// WithSubsystem overrides the subsystem attribute for loggers taken from ctx.
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, subsystemKey, name)
}

// GetSubsystem returns the subsystem from the context, or the configured default.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if val, ok := ctx.Value(subsystemKey).(string); ok {
		return val
	}

	if val, ok := subsystem.Load().(string); ok {
		return val
	}

	return ""
}

// WithMuted suppresses all output from loggers taken from the returned context.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, muteKey, muted)
}

func isMuted(ctx context.Context) bool {
	muted, ok := ctx.Value(muteKey).(bool)

	return ok && muted
}

// WithLogger stores a logger in the context. Get returns it in place of the
// default logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, loggerKey, logger)
}

// With returns a new context with the given key-value pairs added.
// Loggers taken from the context carry them automatically.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		return ctx
	}

	if ctx == nil {
		ctx = context.Background()
	}

	existing := getValues(ctx)
	vals := make([]any, 0, len(existing)+len(values))
	vals = append(vals, existing...)
	vals = append(vals, values...)

	return context.WithValue(ctx, valuesKey, vals)
}

func getValues(ctx context.Context) []any {
	vals, _ := ctx.Value(valuesKey).([]any)

	return vals
}

// nullHandler discards every record.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool { return false }

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error { return nil }

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler { return n }

func (n *nullHandler) WithGroup(_ string) slog.Handler { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// Get returns the logger for ctx: the one stored by WithLogger, or the
// default logger tagged with the subsystem. Values added with With are
// attached in both cases.
func Get(ctx context.Context) *slog.Logger { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if isMuted(ctx) {
		return nullLogger
	}

	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || logger == nil {
		logger = slog.Default()

		if sub := GetSubsystem(ctx); sub != "" {
			logger = logger.With("subsystem", sub)
		}
	}

	if vals := getValues(ctx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}
