package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/code-sandbox/internal/apperror"
	"github.com/sakif/code-sandbox/internal/sandbox"
)

// missingCodeMessage is returned for an absent or empty "code" field and for
// unparseable request bodies alike.
const missingCodeMessage = `Missing "code" field`

// ExecuteHandler handles code execution requests.
type ExecuteHandler struct {
	exec   sandbox.Executor
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(exec sandbox.Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:   exec,
		logger: logger,
	}
}

// HandleExecute processes an incoming code execution request.
//
// Validation happens before any execution resources are touched: a request
// without code is rejected with 400 and never reaches the executor, so no
// workspace is allocated for it. Everything about the user's program itself
// (crashes, non-zero exits, timeouts) comes back as 200 with the outcome
// described in the result; only orchestration failures produce a 500.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req sandbox.ExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: missingCodeMessage})
		return
	}

	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: missingCodeMessage})
		return
	}

	result, err := h.exec.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrResource):
			h.logger.Error("workspace allocation failed", slog.String("error", err.Error()))
		case errors.Is(err, apperror.ErrMaterialization):
			h.logger.Error("staging failed", slog.String("error", err.Error()))
		default:
			h.logger.Error("execution failed unexpectedly", slog.String("error", err.Error()))
		}
		writeJSON(w, http.StatusInternalServerError, internalErrorResult(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
