package sandbox

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/sakif/code-sandbox/internal/apperror"
)

// scriptName is the file the materialized program is written to, relative to
// the workspace.
const scriptName = "script.py"

// wrapperTemplate is the fixed skeleton the user's code is spliced into. It
// has exactly two holes: the workspace path and the verbatim code text. The
// code is never parsed, validated, or rewritten.
//
// The preamble forces matplotlib onto its non-interactive Agg backend before
// pyplot loads and chdirs into the workspace so relative writes land there.
// The postamble walks every figure still open after the user's code ran and
// saves each to a numbered PNG, closing it afterwards.
var wrapperTemplate = template.Must(template.New("script").Parse(`import os
import sys
import matplotlib
matplotlib.use('Agg')  # non-interactive backend
import matplotlib.pyplot as plt

# Run inside the workspace so relative file writes stay there.
os.chdir("{{.WorkDir}}")

# User code starts here
{{.Code}}

# Export any figures left open, in creation order.
for i, fig_num in enumerate(plt.get_fignums()):
    fig = plt.figure(fig_num)
    fig.savefig(os.path.join("{{.WorkDir}}", f"figure_{i}.png"), dpi=150, bbox_inches='tight')
    plt.close(fig)
`))

// materialize writes the wrapped program into the workspace and returns its
// path. The same workspace is never materialized into twice.
func materialize(ws *Workspace, code string) (string, error) {
	var buf bytes.Buffer
	err := wrapperTemplate.Execute(&buf, struct {
		WorkDir string
		Code    string
	}{
		WorkDir: ws.Dir,
		Code:    code,
	})
	if err != nil {
		return "", apperror.Materialization(err)
	}

	path := filepath.Join(ws.Dir, scriptName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", apperror.Materialization(err)
	}
	return path, nil
}
