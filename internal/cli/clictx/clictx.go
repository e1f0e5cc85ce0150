// Package clictx carries the command context values root.go populates
// in its PersistentPreRunE (config, renderer, logger) to the command
// package without commands importing cli, which would cycle back
// through cli's own import of commands.
package clictx

import (
	"context"
	"log/slog"
	"os"

	"github.com/rimecore/rimecore/internal/cli/config"
	"github.com/rimecore/rimecore/internal/cli/output"
)

type configKey struct{}
type rendererKey struct{}
type loggerKey struct{}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithRenderer returns a context carrying r.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Config retrieves the config stashed by WithConfig, or a set of
// hard-coded defaults if none was stashed (e.g. in unit tests that
// build a command directly).
func Config(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		DataDir:      config.DefaultDataDir,
		UserDataDir:  config.DefaultUserDataDir,
		LogLevel:     config.DefaultLogLevel,
		OutputFormat: config.DefaultOutput,
	}
}

// Renderer retrieves the renderer stashed by WithRenderer.
func Renderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// Logger retrieves the logger stashed by WithLogger.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
