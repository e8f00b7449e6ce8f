// Package server wires the router, middleware, and handlers together and
// owns the HTTP listener lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/code-sandbox/internal/handler"
	"github.com/sakif/code-sandbox/internal/middleware"
	"github.com/sakif/code-sandbox/internal/sandbox"
)

// Config holds server configuration.
type Config struct {
	Host string
	Port int
}

// Server represents the HTTP server and its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New creates a Server routing requests to the given executor.
//
// Concurrency comes entirely from net/http's goroutine-per-request model;
// the executor is invoked synchronously on the request goroutine and is
// expected to be safe for concurrent use.
func New(cfg Config, logger *slog.Logger, exec sandbox.Executor) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.setupRoutes(exec)
	return s
}

func (s *Server) setupRoutes(exec sandbox.Executor) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	executeHandler := handler.NewExecuteHandler(exec, s.logger)

	s.router.Get("/health", handler.HandleHealth)
	s.router.Post("/execute", executeHandler.HandleExecute)
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully, giving in-flight executions up to 30 seconds to drain.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // must outlast the longest allowed execution
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
