package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/framekeeper/internal/app"
	"github.com/specialistvlad/framekeeper/internal/task"
	"github.com/specialistvlad/framekeeper/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *app.Config {
	t.Helper()
	flowPath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(flowPath, []byte(`task "boom" { handler = "boom" }`), 0600))
	cfg, err := app.NewConfig(app.Config{FlowPath: flowPath, LogFormat: "text", MaxFrames: 3})
	require.NoError(t, err)
	return cfg
}

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL string with a syntax error fails while the app loads its flow.
	invalidHCL := `
		task "titleLogo" {
			handler = "title_logo"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup failed")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_DemoFlow(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	flowHCL := `
task "titleLogo" {
  handler = "title_logo"
  task "main" {
    handler = "main_menu"
    task "" {
      handler = "game_main"
      values  = { frames = 1 }
      task "" {
        handler = "ending"
        ref     = ["main"]
      }
    }
    task "" { handler = "setting_menu" }
  }
}
`
	filePath := filepath.Join(t.TempDir(), "demo.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(flowHCL), 0600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"--fps=0", "--log-format=text", filePath})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Frame loop finished")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestStartApp_DuplicateHandlerPanicIsStartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	noop := func(context.Context, task.Scheduler, *task.Args) (task.Status, error) { return task.Remove, nil }
	first := testutil.Handlers{"boom": noop}
	second := testutil.Handlers{"boom": noop}

	// --- Act ---
	a, err := startApp(context.Background(), &bytes.Buffer{}, newTestConfig(t), first, second)

	// --- Assert ---
	require.Nil(t, a)
	require.Error(t, err)
	require.Contains(t, err.Error(), "application startup panicked")
	require.Contains(t, err.Error(), "already registered")
}

func TestRunApp_HandlerPanicIsNotReportedAsStartup(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	boom := func(context.Context, task.Scheduler, *task.Args) (task.Status, error) { panic("kaboom") }
	a, err := startApp(context.Background(), &bytes.Buffer{}, newTestConfig(t), testutil.Handlers{"boom": boom})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	// --- Act ---
	err = runApp(context.Background(), a)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "application panicked")
	require.Contains(t, err.Error(), "kaboom")
	require.NotContains(t, err.Error(), "startup")
}
