package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{FlowPath: "flow.hcl", FrameRate: 60, MaxFrames: 10, HealthcheckPort: 8080}},
		{name: "missing flow", cfg: Config{}, wantErr: "FlowPath"},
		{name: "negative fps", cfg: Config{FlowPath: "f", FrameRate: -1}, wantErr: "FrameRate"},
		{name: "fps above one per nanosecond", cfg: Config{FlowPath: "f", FrameRate: 1_000_000_001}, wantErr: "FrameRate"},
		{name: "fps at one per nanosecond", cfg: Config{FlowPath: "f", FrameRate: 1_000_000_000}},
		{name: "negative frames", cfg: Config{FlowPath: "f", MaxFrames: -1}, wantErr: "MaxFrames"},
		{name: "port out of range", cfg: Config{FlowPath: "f", HealthcheckPort: 70000}, wantErr: "HealthcheckPort"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var text bytes.Buffer
	newLogger("warn", "text", &text).Info("hidden")
	newLogger("warn", "text", &text).Warn("shown")
	assert.NotContains(t, text.String(), "hidden")
	assert.Contains(t, text.String(), "msg=shown")

	var js bytes.Buffer
	newLogger("debug", "json", &js).Debug("hello")
	assert.Contains(t, js.String(), `"msg":"hello"`)
	assert.Contains(t, js.String(), `"level":"DEBUG"`)
}

func TestLogOutputToRotatedFile(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "logs", "framekeeper.log")
	var stdout bytes.Buffer

	// --- Act ---
	w, closer := logOutput(path, &stdout)
	require.NotNil(t, closer)
	newLogger("info", "text", w).Info("to file")
	require.NoError(t, closer.Close())

	// --- Assert ---
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "msg=\"to file\""))
	assert.Empty(t, stdout.String())
}

func TestLogOutputDefaultsToWriter(t *testing.T) {
	t.Parallel()
	var stdout bytes.Buffer
	w, closer := logOutput("", &stdout)
	assert.Nil(t, closer)
	assert.Same(t, &stdout, w)
}
