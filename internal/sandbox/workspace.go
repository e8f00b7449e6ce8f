package sandbox

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rs/xid"

	"github.com/sakif/code-sandbox/internal/apperror"
)

// Workspace is a private scratch directory owned by exactly one execution.
// It exists from Acquire to Release and never outlives its request.
type Workspace struct {
	Dir string
}

// Manager allocates and tears down workspaces under a shared root directory.
//
// Uniqueness of the generated names is the only thing separating concurrent
// executions, so names come from xid (collision-resistant, filesystem-safe)
// rather than anything like a counter.
type Manager struct {
	root   string
	logger *slog.Logger
}

// NewManager creates a Manager rooted at the given directory.
func NewManager(root string, logger *slog.Logger) *Manager {
	return &Manager{root: root, logger: logger}
}

// Acquire creates a fresh, uniquely-named workspace directory under the root.
func (m *Manager) Acquire() (*Workspace, error) {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return nil, apperror.Resource("creating workspace root", err)
	}

	dir := filepath.Join(m.root, xid.New().String())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, apperror.Resource("creating workspace", err)
	}

	return &Workspace{Dir: dir}, nil
}

// Release recursively deletes the workspace. It never fails: deletion errors
// are logged and swallowed so cleanup can never mask the execution's real
// outcome. Safe to call with nil or after a partially-failed Acquire.
func (m *Manager) Release(ws *Workspace) {
	if ws == nil || ws.Dir == "" {
		return
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		m.logger.Warn("failed to remove workspace",
			slog.String("dir", ws.Dir),
			slog.String("error", err.Error()),
		)
	}
}
