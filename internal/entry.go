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

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/collection"
	"github.com/starford/folio/internal/hierarchy"
	"github.com/starford/folio/internal/lexindex"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/projectstore"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/watch"
)

func newService(cfg *Config, logger *slog.Logger) (*collection.Service, *lexindex.Service, error) {
	if err := os.MkdirAll(cfg.Collection.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create collection dir: %w", err)
	}

	guard, err := hierarchy.New(cfg.Collection.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init hierarchy: %w", err)
	}

	store := projectstore.New(logger)

	tuning := lexindex.DefaultTuning()
	if cfg.Index.MaxChunkChars > 0 {
		tuning.MaxChunkChars = cfg.Index.MaxChunkChars
	}
	if cfg.Index.MinChunkChars > 0 {
		tuning.MinChunkChars = cfg.Index.MinChunkChars
	}
	if cfg.Index.MaxKeywords > 0 {
		tuning.MaxKeywords = cfg.Index.MaxKeywords
	}
	idx, err := lexindex.Open(store, tuning, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init lexical index: %w", err)
	}

	return collection.NewService(guard, store, idx, logger), idx, nil
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("collection_path", cfg.Collection.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, idx, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the collection for external edits and forward them to SSE clients.
	g.Go(func() error {
		if err := watch.Watch(gCtx, cfg.Collection.Path, logger, func(kind, path string) {
			broker.PublishChange(kind, path)
		}); err != nil {
			logger.Warn("file watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdin/stdout. Logs go to stderr so the
// stdio transport stays clean.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, idx, err := newService(app.config, logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	srv := mcpserver.New(svc)
	logger.Info("MCP server starting on stdio",
		slog.String("collection_path", app.config.Collection.Path))
	return srv.ServeStdio()
}
