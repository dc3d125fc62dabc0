// Package cli turns command-line arguments into a validated app
// configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/pbxsync/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pbxsync", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pbxsync - registers source files in an Xcode project descriptor and drives
the simulator workflow around it.

Usage:
  pbxsync [options] COMMAND

Commands:
  add         Register missing source files in the descriptor.
  build       Build the scheme for the configured simulator.
  boot        Boot the simulator and open its window.
  launch      Install and launch the built app.
  screenshot  Capture the simulator screen.
  run         Full workflow: logs, boot, build, install, launch, screenshot.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "project.hcl", "Path to the project config file.")
	cFlag := flagSet.String("c", "", "Path to the project config file (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print planned descriptor additions without writing.")
	screenshotFlag := flagSet.String("screenshot-path", "screenshot.png", "Where screenshots are saved.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	command := app.Command(flagSet.Arg(0))

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	configPath := *configFlag
	if *cFlag != "" {
		configPath = *cFlag
	}

	config, err := app.NewConfig(app.Config{
		Command:        command,
		ConfigPath:     configPath,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		DryRun:         *dryRunFlag,
		ScreenshotPath: *screenshotFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}
