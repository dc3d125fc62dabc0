package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pbxsync/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy path with all flags",
			args: []string{
				"-config", "/test/project.hcl",
				"--log-level=debug",
				"--log-format=json",
				"--dry-run",
				"--screenshot-path=/tmp/shot.png",
				"add",
			},
			expectedConfig: &app.Config{
				Command:        app.CommandAdd,
				ConfigPath:     "/test/project.hcl",
				LogLevel:       "debug",
				LogFormat:      "json",
				DryRun:         true,
				ScreenshotPath: "/tmp/shot.png",
			},
		},
		{
			name: "Shorthand flag and defaults",
			args: []string{"-c", "/short/project.hcl", "build"},
			expectedConfig: &app.Config{
				Command:        app.CommandBuild,
				ConfigPath:     "/short/project.hcl",
				LogLevel:       "info",
				LogFormat:      "text",
				ScreenshotPath: "screenshot.png",
			},
		},
		{
			name: "Default config path",
			args: []string{"run"},
			expectedConfig: &app.Config{
				Command:        app.CommandRun,
				ConfigPath:     "project.hcl",
				LogLevel:       "info",
				LogFormat:      "text",
				ScreenshotPath: "screenshot.png",
			},
		},
		{
			name:       "No command prints usage and exits cleanly",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:      "Unknown command",
			args:      []string{"teleport"},
			expectErr: true,
		},
		{
			name:      "Invalid log format",
			args:      []string{"--log-format=xml", "add"},
			expectErr: true,
		},
		{
			name:      "Invalid log level",
			args:      []string{"--log-level=verbose", "add"},
			expectErr: true,
		},
		{
			name:      "Unknown flag",
			args:      []string{"--this-is-not-a-valid-flag", "add"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			config, shouldExit, err := Parse(tc.args, out)

			if tc.expectErr {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectExit, shouldExit)
			if tc.expectedConfig != nil {
				assert.Equal(t, tc.expectedConfig, config)
			}
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
