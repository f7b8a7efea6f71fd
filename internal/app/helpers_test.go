package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/framekeeper/internal/registry"
	"github.com/specialistvlad/framekeeper/internal/task"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

const demoFlow = `
task "titleLogo" {
  handler = "title_logo"
  task "main" {
    handler = "main_menu"
    task "" {
      handler = "game_main"
      task "" {
        handler = "ending"
        ref     = ["main"]
      }
    }
    task "" { handler = "setting_menu" }
  }
}
`

func writeFlow(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// funcModule registers fixed handlers for tests.
type funcModule map[string]task.Func

func (m funcModule) Register(r *registry.Registry) {
	for name, fn := range m {
		r.Register(name, fn)
	}
}

// setupAppTest creates a new app instance for system testing.
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp, err := NewApp(context.Background(), logBuffer, appConfig, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv("FRAMEKEEPER_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
