package app

import (
	"io"
	"log/slog"

	"github.com/featuregrid/featuregrid/sdk"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	sdk    *sdk.SDK
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and SDK.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	var opts []sdk.Option
	opts = append(opts, sdk.WithLogger(logger))
	if cfg.DefaultNamespace != "" {
		opts = append(opts, sdk.WithDefaultNamespace(cfg.DefaultNamespace))
	}

	return &App{
		outW:   outW,
		logger: logger,
		sdk:    sdk.New(opts...),
	}
}

// SDK returns the application's SDK instance. This is primarily for testing.
func (a *App) SDK() *sdk.SDK {
	return a.sdk
}
