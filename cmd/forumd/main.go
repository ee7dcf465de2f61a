// Package main is the entry point for the forum server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forum/internal/config"
	"forum/internal/database"
	"forum/internal/forum"
	"forum/internal/handlers"
	"forum/internal/middleware"
	"forum/internal/router"
	"forum/internal/session"
	"forum/internal/store"
	"forum/internal/store/memstore"
	"forum/internal/valkey"
)

// backend is the storage selected by FORUM_STORAGE.
type backend struct {
	store    forum.Store
	accounts handlers.Accounts
	db       *sql.DB // nil for the memory backend
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.Storage,
	)

	ctx := context.Background()

	be, err := openBackend(cfg)
	if err != nil {
		slog.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	if be.db != nil {
		defer be.db.Close()
	}

	svc := forum.NewService(be.store)

	// Seed development data (no-op if the admin account already exists).
	if cfg.IsDev() || cfg.Storage == config.StorageMemory {
		if err := database.Seed(ctx, be.accounts, svc); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := valkey.Connect(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient, cfg.SecureCookies(), cfg.SessionTTL)

	var limiterOpts []middleware.LimiterOption
	if cfg.TrustProxy {
		limiterOpts = append(limiterOpts, middleware.WithTrustedProxy())
	}

	checks := map[string]router.Pinger{"valkey": sessionStore}
	if be.db != nil {
		checks["postgres"] = router.PingFunc(be.db.PingContext)
	}

	r := router.New(router.Deps{
		Sessions:    sessionStore,
		Auth:        handlers.NewAuth(be.accounts, sessionStore),
		Forum:       handlers.NewForum(svc, forum.NewResolver(be.store)),
		AuthLimiter: middleware.NewRateLimiter(valkeyClient, "auth", cfg.AuthRateLimit, time.Minute, limiterOpts...),
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openBackend connects and migrates PostgreSQL, or builds an empty
// in-memory store.
func openBackend(cfg *config.Config) (*backend, error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		mem := memstore.New()
		return &backend{store: mem, accounts: mem}, nil
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &backend{
		store:    store.NewForumStore(db),
		accounts: store.NewUserStore(db),
		db:       db,
	}, nil
}
