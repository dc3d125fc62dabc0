// Package app wires the descriptor mutation pipeline and the simulator
// workflow behind the command surface.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/pbxsync/internal/config"
	"github.com/vk/pbxsync/internal/ctxlog"
	"github.com/vk/pbxsync/internal/simulator"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	model  *config.Model
	runner simulator.Runner
}

// NewApp is the constructor for the main application. It loads the project
// configuration through the given loader; a failure to load is a fatal
// startup error and panics, which the entrypoint recovers into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "descriptor", model.Project.Descriptor)

	return &App{
		outW:   outW,
		logger: logger,
		model:  model,
		runner: simulator.NewExecRunner(),
	}
}

// Model returns the loaded project configuration. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// SetRunner swaps the process runner used by simulator commands. This is a
// test hook.
func (a *App) SetRunner(r simulator.Runner) {
	a.runner = r
}
