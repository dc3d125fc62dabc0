package app

import (
	"errors"
	"fmt"
)

// Command selects the operation a run performs.
type Command string

const (
	// CommandAdd registers missing source files in the descriptor.
	CommandAdd Command = "add"
	// CommandBuild compiles the scheme for the configured simulator.
	CommandBuild Command = "build"
	// CommandBoot boots the simulator and opens its window.
	CommandBoot Command = "boot"
	// CommandLaunch installs and launches the built app.
	CommandLaunch Command = "launch"
	// CommandScreenshot captures the simulator screen.
	CommandScreenshot Command = "screenshot"
	// CommandRun executes the complete workflow end to end.
	CommandRun Command = "run"
)

var knownCommands = map[Command]struct{}{
	CommandAdd:        {},
	CommandBuild:      {},
	CommandBoot:       {},
	CommandLaunch:     {},
	CommandScreenshot: {},
	CommandRun:        {},
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    Command
	ConfigPath string // project config file (HCL)

	LogFormat      string
	LogLevel       string
	DryRun         bool
	ScreenshotPath string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		return nil, errors.New("a command is required")
	}
	if _, ok := knownCommands[cfg.Command]; !ok {
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
