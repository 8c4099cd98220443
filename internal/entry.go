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

	"github.com/starford/hogwarts/internal/api"
	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/houses"
	"github.com/starford/hogwarts/internal/mcpserver"
	"github.com/starford/hogwarts/internal/upstream"
	"github.com/starford/hogwarts/internal/web"
)

// Version is reported in the upstream User-Agent and the MCP handshake.
var Version = "dev"

// Run loads the catalog and serves HTTP until ctx is cancelled or a
// shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := app.newLogger(level)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("upstream_base_url", cfg.Upstream.BaseURL),
		slog.Duration("upstream_timeout", cfg.Upstream.Timeout),
		slog.String("log_level", cfg.App.LogLevel.String()))

	engine, err := app.loadCatalog(ctx, logger)
	if err != nil {
		return err
	}

	handler, err := NewHandler(engine)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Cancelled after shutdown so background goroutines stop with the server.
	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	g, gCtx := errgroup.WithContext(runCtx)

	if app.configPath != "" {
		cw, err := newConfigWatcher(app.configPath, level, logger)
		if err != nil {
			logger.Warn("config reload disabled", slog.String("error", err.Error()))
		} else {
			g.Go(func() error {
				return cw.Run(gCtx)
			})
		}
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
		defer signal.Stop(quit)

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
		stopRun()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP loads the catalog and serves MCP over stdio. Logs go to stderr
// unless WithLogOutput says otherwise, since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(app.config.App.LogLevel)
	logger := app.newLogger(level)

	engine, err := app.loadCatalog(ctx, logger)
	if err != nil {
		return err
	}

	logger.Info("Serving MCP on stdio")
	return mcpserver.New(engine, houses.All(), Version).ServeStdio()
}

// NewHandler builds the full HTTP handler: health checks, the JSON API
// under /api and the HTML pages at the root.
func NewHandler(engine *catalog.Engine) (http.Handler, error) {
	hs := houses.All()

	pages, err := web.NewHandler(engine, hs)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(api.Recoverer)
	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	// The catalog is loaded before the handler exists, so readiness is
	// unconditional.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","characters":%d}`, engine.Snapshot().Len())
	})

	r.Mount("/api", api.NewRouter(engine, hs))
	pages.Register(r)

	return r, nil
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) newLogger(level *slog.LevelVar) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadCatalog fetches the snapshot. Failure here is fatal: nothing can be
// served without it.
func (a *application) loadCatalog(ctx context.Context, logger *slog.Logger) (*catalog.Engine, error) {
	src := a.source
	if src == nil {
		src = upstream.NewClient(a.config.Upstream.BaseURL, a.config.Upstream.Timeout,
			upstream.WithUserAgent(a.config.Upstream.UserAgent),
			upstream.WithLogger(logger))
	}

	start := time.Now()
	engine, err := catalog.New(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded",
		slog.Int("characters", engine.Snapshot().Len()),
		slog.Duration("duration", time.Since(start)))
	return engine, nil
}
