package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun_PanicRecovery verifies that a panic during app startup (here,
// an unparseable config file) is recovered and converted into an error.
func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "project.hcl")
	err := os.WriteFile(configPath, []byte(`project "broken {`), 0o644)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	err = run(out, []string{"-config", configPath, "add"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "application startup panicked")
	assert.Contains(t, err.Error(), "failed to parse")
}

// TestRun_ShouldExit verifies that the help flag results in a clean,
// error-free exit.
func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

// TestRun_ParseError verifies that a CLI parsing failure is returned
// without reaching app startup.
func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--bogus-flag", "add"})

	require.Error(t, err)
}
