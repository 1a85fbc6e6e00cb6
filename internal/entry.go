// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/starford/corkboard/internal/api"
	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/mcpserver"
	"github.com/starford/corkboard/internal/metrics"
	"github.com/starford/corkboard/internal/noteservice"
	"github.com/starford/corkboard/internal/store"
)

// services is the server-side object graph shared by HTTP and MCP.
type services struct {
	db    *store.DB
	auth  *auth.Service
	notes *noteservice.Service
}

func newServices(cfg *Config) (*services, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init tokens: %w", err)
	}
	loc, err := cfg.Quota.Location()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init quota: %w", err)
	}
	return &services{
		db:   db,
		auth: auth.NewService(db, tokens, auth.NewHasher(cfg.Auth.BcryptCost)),
		notes: noteservice.NewService(db,
			noteservice.WithDailyLimit(cfg.Quota.DailyLimit),
			noteservice.WithLocation(loc),
		),
	}, nil
}

func newLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newHandler builds the root router: health checks, metrics and the API.
func newHandler(cfg *Config, svc *services) http.Handler {
	apiRouter := api.NewRouter(svc.auth, svc.notes, api.RouterOptions{
		CORSOrigins:   cfg.App.HTTP.CORSOrigins,
		AuthRateLimit: cfg.Auth.LoginRateLimit,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := svc.db.Ping(); err != nil {
			slog.Error("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	var level slog.LevelVar
	level.Set(cfg.App.LogLevel)
	logger := newLogger(os.Stdout, &level)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("daily_limit", cfg.Quota.DailyLimit),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.db.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHandler(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Apply log level edits from the config file.
	if app.configPath != "" {
		g.Go(func() error {
			if err := WatchConfig(gCtx, app.configPath, &level, logger); err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
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
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the config watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio. Logs go to stderr because stdout
// carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	var level slog.LevelVar
	level.Set(cfg.App.LogLevel)
	slog.SetDefault(newLogger(os.Stderr, &level))

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.db.Close()

	slog.Info("MCP server starting", slog.String("sqlite_path", cfg.SQLite.Path))
	return mcpserver.New(svc.auth, svc.notes).ServeStdio()
}
