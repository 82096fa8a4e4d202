// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dalvah/planease/internal/alarm"
	"github.com/dalvah/planease/internal/api"
	"github.com/dalvah/planease/internal/planner"
	"github.com/dalvah/planease/internal/sse"
	"github.com/dalvah/planease/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.clock == nil {
		app.clock = alarm.SystemClock()
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the persistence provider.
	var provider storage.Provider
	var fsProvider *storage.FS
	switch cfg.Storage.Backend {
	case StorageBackendSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		provider = db
	default:
		fs, err := storage.NewFS(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		provider = fs
		fsProvider = fs
	}
	defer provider.Close()

	// Build the store and merge any previously saved session state.
	store := planner.NewStore()
	planner.LoadState(provider, store, logger)
	if app.seed && len(store.Items()) == 0 {
		planner.Seed(store)
		logger.Info("seeded demo data")
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Alarm scheduler, publishing state transitions over SSE.
	sched := alarm.NewScheduler(store, alarm.Options{
		Clock:        app.clock,
		PollInterval: time.Duration(cfg.Alarms.PollIntervalSeconds) * time.Second,
		Logger:       logger,
		OnEvent: func(e alarm.Event) {
			broker.Publish(sse.Event{Type: "alarm." + e.Kind, Data: e})
		},
	})
	sched.Start()
	defer sched.Stop()

	saveState := func() error { return planner.SaveState(provider, store) }

	// Build API handler and router.
	handler := api.NewHandler(api.Deps{
		Store:         store,
		Scheduler:     sched,
		Broker:        broker,
		Clock:         app.clock,
		MaxBulkEvents: cfg.Imports.MaxBulkEvents,
		SaveState:     saveState,
	})
	apiRouter := api.NewRouter(handler, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the state directory for external edits (file backend only).
	if fsProvider != nil {
		g.Go(func() error {
			err := planner.WatchState(gCtx, fsProvider, store, logger, func() {
				broker.Publish(sse.Event{Type: "state.reloaded", Data: map[string]string{}})
			})
			if err != nil {
				logger.Warn("state watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Final snapshot so alarm and settings changes survive the restart.
		if err := saveState(); err != nil {
			logger.Warn("final state save failed", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
