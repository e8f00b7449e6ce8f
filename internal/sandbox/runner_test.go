package sandbox

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shellSandbox builds a Sandbox whose "interpreter" is /bin/sh, so runner
// behavior can be tested without a Python installation.
func shellSandbox(t *testing.T) *Sandbox {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Root = filepath.Join(t.TempDir(), "workspaces")
	cfg.PythonBin = "/bin/sh"
	return New(cfg, testLogger())
}

// writeScript drops raw script content into a fresh workspace.
func writeScript(t *testing.T, s *Sandbox, content string) (string, *Workspace) {
	t.Helper()
	ws, err := s.workspaces.Acquire()
	require.NoError(t, err)
	t.Cleanup(func() { s.workspaces.Release(ws) })

	path := filepath.Join(ws.Dir, scriptName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, ws
}

func TestRunScript(t *testing.T) {
	s := shellSandbox(t)

	t.Run("captures stdout and stderr separately", func(t *testing.T) {
		path, ws := writeScript(t, s, "echo out\necho err 1>&2\n")

		res, err := s.runScript(path, ws, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "out\n", res.stdout)
		assert.Equal(t, "err\n", res.stderr)
		assert.Equal(t, 0, res.exitCode)
		assert.False(t, res.timedOut)
		assert.Greater(t, res.elapsed, time.Duration(0))
	})

	t.Run("non-zero exit is a reported outcome, not an error", func(t *testing.T) {
		path, ws := writeScript(t, s, "exit 3\n")

		res, err := s.runScript(path, ws, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 3, res.exitCode)
	})

	t.Run("runs with the workspace as working directory", func(t *testing.T) {
		path, ws := writeScript(t, s, "pwd\ntouch relative.png\n")

		res, err := s.runScript(path, ws, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, ws.Dir+"\n", res.stdout)
		assert.FileExists(t, filepath.Join(ws.Dir, "relative.png"))
	})

	t.Run("redirects the matplotlib config dir into the workspace", func(t *testing.T) {
		path, ws := writeScript(t, s, `echo "$MPLCONFIGDIR"`+"\n")

		res, err := s.runScript(path, ws, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, ws.Dir+"\n", res.stdout)
	})

	t.Run("timeout kills the process and reports the sentinel", func(t *testing.T) {
		path, ws := writeScript(t, s, "echo before\nsleep 10\necho after\n")

		start := time.Now()
		res, err := s.runScript(path, ws, 1*time.Second)
		require.NoError(t, err)

		assert.True(t, res.timedOut)
		assert.Equal(t, FailureReturnCode, res.exitCode)
		// Captured output is discarded on timeout.
		assert.Empty(t, res.stdout)
		assert.Equal(t, "Execution timed out after 1 seconds", res.stderr)
		// Elapsed is reported as exactly the timeout, not the true latency.
		assert.Equal(t, 1*time.Second, res.elapsed)
		// And the process really was killed, well before its sleep finished.
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("missing interpreter is a spawn error", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Root = filepath.Join(t.TempDir(), "workspaces")
		cfg.PythonBin = "/nonexistent/interpreter"
		broken := New(cfg, testLogger())

		path, ws := writeScript(t, broken, "echo never\n")
		_, err := broken.runScript(path, ws, time.Second)
		assert.Error(t, err)
	})
}
