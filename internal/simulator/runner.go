package simulator

import (
	"context"
	"io"
	"os/exec"
)

// Runner abstracts process execution so the workflow can be tested without
// the native toolchain installed.
type Runner interface {
	// Output runs a command to completion and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a long-running command streaming into out. The
	// returned stop function terminates the process.
	Start(ctx context.Context, out io.Writer, name string, args ...string) (func() error, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns the production Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (*ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

func (*ExecRunner) Start(ctx context.Context, out io.Writer, name string, args ...string) (func() error, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	stop := func() error {
		if err := cmd.Process.Kill(); err != nil {
			return err
		}
		// Wait releases resources; the kill above makes the error expected.
		_ = cmd.Wait()
		return nil
	}
	return stop, nil
}
