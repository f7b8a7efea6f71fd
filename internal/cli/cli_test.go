package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/framekeeper/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectCode     int
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-flow", "/test/flow",
				"--entry=titleLogo",
				"--frames=120",
				"--fps=30",
				"--log-level=debug",
				"--log-format=text",
				"--log-file=/tmp/fk.log",
				"--healthcheck-port=8080",
				"--input-url=http://localhost:3000",
			},
			expectedConfig: &app.Config{
				FlowPath:        "/test/flow",
				Entry:           "titleLogo",
				MaxFrames:       120,
				FrameRate:       30,
				LogLevel:        "debug",
				LogFormat:       "text",
				LogFile:         "/tmp/fk.log",
				HealthcheckPort: 8080,
				InputURL:        "http://localhost:3000",
			},
		},
		{
			name: "Shorthand flag and defaults",
			args: []string{"-f", "/short/path"},
			expectedConfig: &app.Config{
				FlowPath:  "/short/path",
				FrameRate: 60,
				LogLevel:  "info",
				LogFormat: "json",
			},
		},
		{
			name: "Positional argument for path",
			args: []string{"/positional/path"},
			expectedConfig: &app.Config{
				FlowPath:  "/positional/path",
				FrameRate: 60,
				LogLevel:  "info",
				LogFormat: "json",
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				assert.Contains(t, output, "Usage:")
			},
		},
		{
			name:       "No path prints usage",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				assert.Contains(t, output, "FLOW_PATH")
			},
		},
		{name: "Unknown flag", args: []string{"--nope"}, expectCode: 2},
		{name: "Invalid log format", args: []string{"--log-format=xml", "p"}, expectCode: 2},
		{name: "Invalid log level", args: []string{"--log-level=trace", "p"}, expectCode: 2},
		{name: "Negative frames", args: []string{"--frames=-1", "p"}, expectCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			if tc.expectCode != 0 {
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, tc.expectCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectExit, shouldExit)
			if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
