// main is the entry point of the Employees API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger
//  3. Turn SIGINT/SIGTERM into context cancellation
//  4. Open the SQLite database and create the employees table
//  5. Build the router and the HTTP server
//  6. Serve HTTP in a separate goroutine until a signal or a listener failure
//  7. Drain in-flight requests, close storage, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/employees-api --config=config/local.yaml
//
// or with no file at all, listening on :3000 and writing employees.db:
//
//	go run ./cmd/employees-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/employees-api/internal/config"
	"github.com/aanand-mishra/employees-api/internal/http/metrics"
	"github.com/aanand-mishra/employees-api/internal/http/router"
	"github.com/aanand-mishra/employees-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad exits the process itself when the config is unusable.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through slog.Default, so it is set before any route
	// is built.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	// ── 3. Wait for Shutdown Signal ───────────────────────────────────────
	// ctx is cancelled on SIGINT or SIGTERM; run starts draining then.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, cfg, log)
	stop()
	os.Exit(code)
}

// run serves until ctx is cancelled or the listener fails, then shuts the
// server down and closes storage. It returns the process exit code; every
// deferred cleanup has run by the time it returns.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) int {
	log.Info("starting employees-api", slog.String("env", cfg.Env))

	// ── 4. Initialise Storage (Database) ──────────────────────────────────
	// The store owns the only database handle. It is handed to the router
	// here and closed after the server stops.
	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		return 1
	}
	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router.New(store, metrics.New()),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe returns http.ErrServerClosed after Shutdown; anything
	// else means the listener died and the process should stop.
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server...")
	case err := <-serveErr:
		log.Error("server encountered an error", slog.String("error", err.Error()))
		exitCode = 1
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	// In-flight requests get ShutdownTimeout to finish. Storage is closed
	// only after the server has stopped handing it requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		exitCode = 1
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
		exitCode = 1
	}

	log.Info("server stopped")
	return exitCode
}

// setupLogger returns a text logger at debug level for dev and anything
// unrecognised, JSON for staging (debug) and prod (info).
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
