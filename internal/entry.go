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
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/cms"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/store"
	"github.com/starford/folio/internal/uploads"
	"github.com/starford/folio/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	out := a.logOutput
	if out == nil {
		out = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

// openStore opens the configured backend and makes sure it holds a usable
// document. The returned close func releases the backend.
func (a *application) openStore(ctx context.Context, logger *slog.Logger) (store.Store, func() error, error) {
	cfg := a.config
	var (
		backend store.Store
		closeFn = func() error { return nil }
	)

	switch cfg.Store.Driver {
	case StoreDriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		backend, closeFn = db, db.Close
	default:
		f, err := store.NewJSONFile(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		backend = f
	}

	seed := func() (string, error) {
		if cfg.Auth.AdminPassword == "" {
			return "", errors.New("auth.admin_password is required to create the content document")
		}
		return auth.HashPassword(cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
	}
	if err := store.Init(ctx, backend, seed, logger); err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return backend, closeFn, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.String("uploads_path", cfg.Uploads.Path),
		slog.String("static_dir", cfg.Site.StaticDir),
		slog.Any("allowed_origins", cfg.Site.AllowedOrigins),
		slog.String("log_level", cfg.App.LogLevel.String()))

	backend, closeStore, err := app.openStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer closeStore()
	repo := store.NewRepo(backend)

	files, err := uploads.NewDir(cfg.Uploads.Path)
	if err != nil {
		return fmt.Errorf("init uploads: %w", err)
	}

	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	svc := cms.NewService(repo, files,
		cms.WithNotifier(broker),
		cms.WithMaxUploadBytes(cfg.Uploads.MaxBytes),
		cms.WithLogger(logger),
	)
	authSvc := auth.NewService(repo, auth.Options{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.TokenTTL,
		Cost:   cfg.Auth.BcryptCost,
	})

	// Clear references to uploads that vanished while we were down.
	if n, err := svc.Reconcile(ctx); err != nil {
		logger.Warn("initial reconcile failed", slog.String("error", err.Error()))
	} else if n > 0 {
		logger.Info("initial reconcile cleared references", slog.Int("count", n))
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.CORS(cfg.Site.AllowedOrigins))

	// Health check endpoints (unauthenticated).
	api.MountHealth(r, api.NewHealth(repo, backend, logger))

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(svc, authSvc, broker, logger))
	api.MountUploads(r, "/uploads", api.NewUploadsHandler(files))

	if cfg.Site.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Site.StaticDir)))
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Watch.Enabled {
		wopts := watch.Options{
			UploadDir:      files.Root(),
			IgnorePrefixes: []string{store.TempPrefix, uploads.TempPrefix},
			OnUploadsRemoved: func(ctx context.Context) {
				if n, err := svc.Reconcile(ctx); err != nil {
					logger.Warn("reconcile failed", slog.String("error", err.Error()))
				} else if n > 0 {
					logger.Info("reconcile cleared references", slog.Int("count", n))
				}
			},
			OnDataChanged: func(context.Context) {
				broker.PublishChange(sse.ChangedEvent, nil)
			},
		}
		if cfg.Store.Driver == StoreDriverJSON {
			wopts.DataFile = cfg.Store.Path
		}
		g.Go(func() error {
			if err := watch.Watch(gCtx, wopts, logger); err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
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

		// Open event streams never finish on their own.
		broker.Close()

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

// errShutdown cancels the group so the watcher exits with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the content tools over stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()
	slog.SetDefault(logger)

	backend, closeStore, err := app.openStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer closeStore()

	files, err := uploads.NewDir(cfg.Uploads.Path)
	if err != nil {
		return fmt.Errorf("init uploads: %w", err)
	}
	svc := cms.NewService(store.NewRepo(backend), files,
		cms.WithMaxUploadBytes(cfg.Uploads.MaxBytes),
		cms.WithLogger(logger),
	)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc, app.version).ServeStdio()
}

// ResetPassword replaces the admin password without the current one.
func ResetPassword(ctx context.Context, password string, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := app.logger()

	// On a fresh install the new password also seeds the document.
	if app.config.Auth.AdminPassword == "" {
		cfg := *app.config
		cfg.Auth.AdminPassword = password
		app.config = &cfg
	}

	backend, closeStore, err := app.openStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer closeStore()

	authSvc := auth.NewService(store.NewRepo(backend), auth.Options{
		Secret: []byte(app.config.Auth.JWTSecret),
		Cost:   app.config.Auth.BcryptCost,
	})
	if err := authSvc.SetPassword(ctx, password); err != nil {
		return err
	}
	logger.Info("admin password updated")
	return nil
}
