package sandbox

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// runResult is the raw outcome of one child process run.
type runResult struct {
	stdout   string
	stderr   string
	exitCode int
	elapsed  time.Duration
	timedOut bool
}

// runScript spawns the interpreter on the materialized script with the
// workspace as working directory. MPLCONFIGDIR is pointed into the workspace
// so matplotlib never writes to a shared cache location.
//
// Stdout and stderr are captured as separate complete buffers. The timeout is
// the only abort path: there is no caller-initiated cancellation, and a
// timed-out or crashed run is never retried.
//
// A non-zero exit is reported in the result, not as an error; the returned
// error is reserved for failures to spawn the process at all.
func (s *Sandbox) runScript(scriptPath string, ws *Workspace, timeout time.Duration) (runResult, error) {
	cmd := exec.Command(s.config.PythonBin, "-u", scriptPath)
	cmd.Dir = ws.Dir
	cmd.Env = append(os.Environ(), "MPLCONFIGDIR="+ws.Dir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return runResult{}, fmt.Errorf("starting interpreter: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		elapsed := time.Since(start)
		exitCode := 0
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return runResult{}, fmt.Errorf("waiting for interpreter: %w", err)
			}
			exitCode = exitErr.ExitCode()
		}
		return runResult{
			stdout:   stdout.String(),
			stderr:   stderr.String(),
			exitCode: exitCode,
			elapsed:  elapsed,
		}, nil

	case <-timer.C:
		if err := cmd.Process.Kill(); err != nil {
			s.logger.Warn("failed to kill timed-out process",
				slog.Int("pid", cmd.Process.Pid),
				slog.String("error", err.Error()),
			)
		}
		<-done // reap

		// Synthetic result: captured output is discarded and the elapsed
		// time is reported as exactly the timeout, not the true latency.
		secs := int(timeout / time.Second)
		return runResult{
			stderr:   fmt.Sprintf("Execution timed out after %d seconds", secs),
			exitCode: FailureReturnCode,
			elapsed:  timeout,
			timedOut: true,
		}, nil
	}
}
