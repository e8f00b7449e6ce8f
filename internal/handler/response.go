package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/code-sandbox/internal/sandbox"
)

// ErrorResponse is the body returned for client errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; after Encode starts writing there is
// nothing left to change, so a late encoding failure can only be logged.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// internalErrorResult shapes an orchestration failure as an ExecutionResult
// so clients always get the same body shape: empty stdout, the error text in
// stderr, the failure sentinel, no files, zero elapsed time.
func internalErrorResult(err error) *sandbox.ExecutionResult {
	return &sandbox.ExecutionResult{
		Stderr:     err.Error(),
		ReturnCode: sandbox.FailureReturnCode,
		Files:      []sandbox.GeneratedFile{},
	}
}
