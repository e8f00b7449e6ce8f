package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-sandbox/internal/apperror"
)

func TestMaterialize(t *testing.T) {
	ws := &Workspace{Dir: t.TempDir()}

	code := "x = 1\nprint('weird chars: {{ }} % \\n')"
	path, err := materialize(ws, code)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Dir, "script.py"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	script := string(data)

	t.Run("user code is embedded verbatim", func(t *testing.T) {
		assert.Contains(t, script, code)
	})

	t.Run("headless backend is selected before pyplot loads", func(t *testing.T) {
		use := strings.Index(script, "matplotlib.use('Agg')")
		pyplot := strings.Index(script, "import matplotlib.pyplot")
		require.GreaterOrEqual(t, use, 0)
		require.GreaterOrEqual(t, pyplot, 0)
		assert.Less(t, use, pyplot)
	})

	t.Run("working directory is redirected into the workspace", func(t *testing.T) {
		assert.Contains(t, script, `os.chdir("`+ws.Dir+`")`)
	})

	t.Run("preamble precedes the code and the figure export follows it", func(t *testing.T) {
		chdir := strings.Index(script, "os.chdir(")
		user := strings.Index(script, code)
		export := strings.Index(script, "plt.get_fignums()")
		assert.Less(t, chdir, user)
		assert.Less(t, user, export)
	})

	t.Run("figures export to numbered files at fixed resolution", func(t *testing.T) {
		assert.Contains(t, script, `f"figure_{i}.png"`)
		assert.Contains(t, script, "dpi=150")
		assert.Contains(t, script, "plt.close(fig)")
	})
}

func TestMaterializeUnwritableWorkspace(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := filepath.Join(t.TempDir(), "frozen")
	require.NoError(t, os.MkdirAll(dir, 0o555))

	_, err := materialize(&Workspace{Dir: dir}, "print('hi')")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrMaterialization))
}
