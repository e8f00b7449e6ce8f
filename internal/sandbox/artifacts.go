package sandbox

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// artifactPattern matches the images the postamble exports, plus anything
// else the user's code saved as a PNG directly.
const artifactPattern = "*.png"

// collectArtifacts scans the workspace (non-recursively) for PNG files and
// returns them base64-encoded, sorted lexicographically by filename. For the
// figure_<n>.png naming this matches creation order up to ten figures;
// beyond that "figure_10" sorts before "figure_2". That ordering is part of
// the wire contract and is kept as-is.
//
// A file that vanishes between scan and read is skipped. Never fails: a
// collection problem must not override the execution's real outcome.
func (s *Sandbox) collectArtifacts(ws *Workspace) []GeneratedFile {
	files := []GeneratedFile{}

	matches, err := filepath.Glob(filepath.Join(ws.Dir, artifactPattern))
	if err != nil {
		s.logger.Warn("artifact scan failed",
			slog.String("workspace", ws.Dir),
			slog.String("error", err.Error()),
		)
		return files
	}
	sort.Strings(matches)

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable artifact",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		files = append(files, GeneratedFile{
			Name:     filepath.Base(path),
			Base64:   base64.StdEncoding.EncodeToString(data),
			MimeType: "image/png",
		})
	}

	return files
}
