// Package simulator drives the build and launch workflow around an updated
// descriptor: xcodebuild for compilation, simctl for the device lifecycle,
// log capture, and screenshots. The descriptor mutation core hands over
// here; nothing in this package touches the descriptor.
package simulator

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/pbxsync/internal/config"
	"github.com/vk/pbxsync/internal/ctxlog"
)

// Workflow executes simulator commands against one configured project.
type Workflow struct {
	runner      Runner
	out         io.Writer
	projectPath string // path to the .xcodeproj directory
	cfg         *config.Simulator
}

// New creates a Workflow. projectPath is the .xcodeproj directory the build
// operates on.
func New(runner Runner, out io.Writer, projectPath string, cfg *config.Simulator) *Workflow {
	return &Workflow{runner: runner, out: out, projectPath: projectPath, cfg: cfg}
}

// Boot boots the configured simulator. A device that is already booted is
// not an error.
func (w *Workflow) Boot(ctx context.Context) error {
	out, err := w.runner.Output(ctx, "xcrun", "simctl", "boot", w.cfg.UDID)
	if err != nil && !strings.Contains(out, "current state: Booted") {
		return fmt.Errorf("booting simulator %s: %w\n%s", w.cfg.UDID, err, out)
	}
	return nil
}

// OpenWindow brings up the Simulator application window.
func (w *Workflow) OpenWindow(ctx context.Context) error {
	if out, err := w.runner.Output(ctx, "open", "-a", "Simulator"); err != nil {
		return fmt.Errorf("opening simulator window: %w\n%s", err, out)
	}
	return nil
}

// Build compiles the scheme for the configured simulator with code signing
// disabled. A failing build surfaces the native tool's diagnostics.
func (w *Workflow) Build(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Starting xcodebuild.", "project", w.projectPath, "scheme", w.cfg.Scheme)
	out, err := w.runner.Output(ctx, "xcodebuild",
		"-project", w.projectPath,
		"-scheme", w.cfg.Scheme,
		"-destination", "platform=iOS Simulator,id="+w.cfg.UDID,
		"-derivedDataPath", w.cfg.DerivedData,
		"-configuration", w.cfg.Configuration,
		"clean", "build",
		"CODE_SIGN_IDENTITY=",
		"CODE_SIGNING_REQUIRED=NO",
	)
	if err != nil {
		return fmt.Errorf("build failed: %w\n%s", err, out)
	}
	return nil
}

// AppPath locates the built application bundle: the expected products path
// first, then a walk of the derived data directory.
func (w *Workflow) AppPath() (string, error) {
	expected := filepath.Join(w.cfg.DerivedData, "Build", "Products",
		w.cfg.Configuration+"-iphonesimulator", w.cfg.Scheme+".app")
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	var found string
	err := filepath.WalkDir(w.cfg.DerivedData, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && strings.HasSuffix(d.Name(), ".app") {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s for app bundle: %w", w.cfg.DerivedData, err)
	}
	if found == "" {
		return "", fmt.Errorf("no app bundle found under %s", w.cfg.DerivedData)
	}
	return found, nil
}

// Install replaces any previous install of the bundle on the simulator.
func (w *Workflow) Install(ctx context.Context, appPath string) error {
	// A failed uninstall just means the app was not installed yet.
	_, _ = w.runner.Output(ctx, "xcrun", "simctl", "uninstall", w.cfg.UDID, w.cfg.BundleID)
	if out, err := w.runner.Output(ctx, "xcrun", "simctl", "install", w.cfg.UDID, appPath); err != nil {
		return fmt.Errorf("installing %s: %w\n%s", appPath, err, out)
	}
	return nil
}

// Launch starts the installed application.
func (w *Workflow) Launch(ctx context.Context) error {
	if out, err := w.runner.Output(ctx, "xcrun", "simctl", "launch", w.cfg.UDID, w.cfg.BundleID); err != nil {
		return fmt.Errorf("launching %s: %w\n%s", w.cfg.BundleID, err, out)
	}
	return nil
}

// Screenshot captures the simulator screen into path.
func (w *Workflow) Screenshot(ctx context.Context, path string) error {
	if out, err := w.runner.Output(ctx, "xcrun", "simctl", "io", w.cfg.UDID, "screenshot", path); err != nil {
		return fmt.Errorf("taking screenshot: %w\n%s", err, out)
	}
	return nil
}

// CaptureLogs streams the app's device log into a timestamped file under
// the configured logs directory, with a latest.log symlink pointing at it.
// The returned stop function ends the capture.
func (w *Workflow) CaptureLogs(ctx context.Context) (func() error, string, error) {
	if err := os.MkdirAll(w.cfg.LogsDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating logs directory: %w", err)
	}
	name := fmt.Sprintf("simulator_%s.log", time.Now().Format("20060102_150405"))
	path := filepath.Join(w.cfg.LogsDir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("creating log file: %w", err)
	}

	stop, err := w.runner.Start(ctx, f, "xcrun", "simctl", "spawn", w.cfg.UDID,
		"log", "stream",
		"--level=debug",
		"--style=syslog",
		"--predicate", fmt.Sprintf("processImagePath CONTAINS %q", w.cfg.Scheme),
	)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("starting log capture: %w", err)
	}

	latest := filepath.Join(w.cfg.LogsDir, "latest.log")
	_ = os.Remove(latest)
	_ = os.Symlink(name, latest)

	wrapped := func() error {
		err := stop()
		f.Close()
		return err
	}
	return wrapped, path, nil
}

// Full runs the complete workflow: log capture, boot, window, build, locate,
// install, launch, screenshot. Progress is reported step by step; the first
// failing step aborts the run.
func (w *Workflow) Full(ctx context.Context, screenshotPath string) error {
	step := func(n int, msg string) {
		fmt.Fprintf(w.out, "Step %d: %s\n", n, msg)
	}
	done := func(msg string) {
		fmt.Fprintf(w.out, "✓ %s\n", msg)
	}

	step(1, "Starting log capture...")
	stopLogs, logPath, err := w.CaptureLogs(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = stopLogs()
	}()
	done("Log capture started: " + logPath)

	step(2, "Booting simulator...")
	if err := w.Boot(ctx); err != nil {
		return err
	}
	done("Simulator booted")

	step(3, "Opening simulator window...")
	if err := w.OpenWindow(ctx); err != nil {
		return err
	}
	done("Simulator opened")

	step(4, "Building app...")
	if err := w.Build(ctx); err != nil {
		return err
	}
	done("App built")

	step(5, "Finding app bundle...")
	appPath, err := w.AppPath()
	if err != nil {
		return err
	}
	done("App found: " + appPath)

	step(6, "Installing app...")
	if err := w.Install(ctx, appPath); err != nil {
		return err
	}
	done("App installed")

	step(7, "Launching app...")
	if err := w.Launch(ctx); err != nil {
		return err
	}
	done("App launched")

	step(8, "Taking screenshot...")
	if err := w.Screenshot(ctx, screenshotPath); err != nil {
		return err
	}
	done("Screenshot saved: " + screenshotPath)

	return nil
}
