// Package main is the entry point for the code sandbox server.
//
// main stays minimal: load configuration, build the logger and the sandbox
// executor, start the server. All real logic lives under internal/.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/sakif/code-sandbox/internal/config"
	"github.com/sakif/code-sandbox/internal/sandbox"
	"github.com/sakif/code-sandbox/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	exec := sandbox.New(sandbox.Config{
		Root:           cfg.WorkspaceRoot,
		PythonBin:      cfg.PythonBin,
		DefaultTimeout: time.Duration(cfg.DefaultTimeoutSeconds) * time.Second,
		MaxTimeout:     time.Duration(cfg.MaxTimeoutSeconds) * time.Second,
	}, logger)

	srv := server.New(server.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	}, logger, exec)

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
