// Package sandbox implements the execution lifecycle for untrusted Python
// code: stage the code into a disposable workspace, run it in a child process
// under a wall-clock timeout, collect any matplotlib figures it produced, and
// tear the workspace down again.
//
// Isolation here is deliberately modest: separate process, separate scratch
// directory, hard timeout. There is no namespace, cgroup, or syscall
// confinement, and no network restriction. Each execution gets its own
// interpreter process, which also keeps matplotlib's process-global figure
// registry from leaking between requests.
package sandbox

import (
	"context"
	"log/slog"
	"time"
)

// FailureReturnCode is the sentinel return code reported for timeouts and
// internal errors. It is outside the 0-255 range of real exit statuses, so
// clients can always tell it apart from a program's own exit code.
const FailureReturnCode = -1

// ExecutionRequest is a request to execute Python code.
type ExecutionRequest struct {
	Code string `json:"code"`
	// Timeout is the requested wall-clock limit in seconds. Zero or
	// negative means "use the configured default". Values above the
	// configured maximum are clamped, never rejected.
	Timeout int `json:"timeout,omitempty"`
}

// GeneratedFile is one image artifact produced by an execution.
type GeneratedFile struct {
	Name     string `json:"name"`
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// ExecutionResult is the complete, immutable outcome of one execution.
type ExecutionResult struct {
	Stdout          string          `json:"stdout"`
	Stderr          string          `json:"stderr"`
	ReturnCode      int             `json:"returnCode"`
	Files           []GeneratedFile `json:"files"`
	ExecutionTimeMs int64           `json:"executionTimeMs"`
}

// Executor is the core interface for running code in an isolated environment.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
}

// Config holds the configuration for process-based execution.
type Config struct {
	// Root is the directory under which per-execution workspaces are created.
	Root string
	// PythonBin is the interpreter used to run materialized scripts.
	PythonBin string
	// DefaultTimeout applies when a request does not specify one.
	DefaultTimeout time.Duration
	// MaxTimeout is the ceiling any request can ask for.
	MaxTimeout time.Duration
}

// DefaultConfig provides the defaults for a Python sandbox.
func DefaultConfig() Config {
	return Config{
		Root:           "/tmp/sandbox",
		PythonBin:      "python3",
		DefaultTimeout: 30 * time.Second,
		MaxTimeout:     60 * time.Second,
	}
}

// Sandbox runs code in throwaway child processes. It implements Executor.
//
// A Sandbox holds no per-execution state and is safe for concurrent use;
// isolation between in-flight executions comes entirely from each one owning
// its own workspace directory and interpreter process.
type Sandbox struct {
	config     Config
	logger     *slog.Logger
	workspaces *Manager
}

// New creates a Sandbox using the given config.
func New(cfg Config, logger *slog.Logger) *Sandbox {
	return &Sandbox{
		config:     cfg,
		logger:     logger,
		workspaces: NewManager(cfg.Root, logger),
	}
}

// effectiveTimeout resolves the timeout for a request: the default when the
// request carries none, clamped to the configured maximum otherwise.
func (s *Sandbox) effectiveTimeout(req ExecutionRequest) time.Duration {
	timeout := s.config.DefaultTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}
	if timeout > s.config.MaxTimeout {
		timeout = s.config.MaxTimeout
	}
	return timeout
}

// Execute runs one request through the full lifecycle: acquire a workspace,
// materialize the script, run it, collect artifacts. The workspace is
// released on every exit path.
//
// A non-zero exit or a timeout is a normally-reported outcome, not an error;
// the returned error is non-nil only for orchestration failures (workspace,
// staging, spawn), which the HTTP layer maps to an internal-error response.
func (s *Sandbox) Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error) {
	timeout := s.effectiveTimeout(req)

	ws, err := s.workspaces.Acquire()
	if err != nil {
		return nil, err
	}
	defer s.workspaces.Release(ws)

	scriptPath, err := materialize(ws, req.Code)
	if err != nil {
		return nil, err
	}

	s.logger.Info("executing code",
		slog.String("workspace", ws.Dir),
		slog.Duration("timeout", timeout),
	)

	run, err := s.runScript(scriptPath, ws, timeout)
	if err != nil {
		return nil, err
	}

	result := &ExecutionResult{
		Stdout:          run.stdout,
		Stderr:          run.stderr,
		ReturnCode:      run.exitCode,
		Files:           []GeneratedFile{},
		ExecutionTimeMs: run.elapsed.Milliseconds(),
	}

	// A timed-out run was killed mid-flight; whatever it may have written
	// is not collected.
	if !run.timedOut {
		result.Files = s.collectArtifacts(ws)
	}

	s.logger.Info("execution finished",
		slog.String("workspace", ws.Dir),
		slog.Int("returnCode", result.ReturnCode),
		slog.Int("files", len(result.Files)),
		slog.Int64("elapsedMs", result.ExecutionTimeMs),
		slog.Bool("timedOut", run.timedOut),
	)

	return result, nil
}
