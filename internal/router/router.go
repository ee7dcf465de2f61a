// Package router sets up all HTTP routes and middleware chains for the
// forum API. Reads are public; every mutating route requires a session.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"forum/internal/handlers"
	"forum/internal/middleware"
	"forum/internal/session"
)

// healthTimeout bounds each dependency check behind /health.
const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps holds everything the router needs.
type Deps struct {
	Sessions *session.Store
	Auth     *handlers.Auth
	Forum    *handlers.Forum

	// AuthLimiter guards login and registration. Nil disables limiting.
	AuthLimiter *middleware.RateLimiter

	// Checks are probed by /health, keyed by dependency name.
	Checks map[string]Pinger
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Logger wraps Recoverer
	// so a recovered panic is still logged with its 500.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	// Health check, no session.
	r.Get("/health", healthHandler(d.Checks))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions))

		// Account endpoints, accessible without a session.
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware)
			}
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
		})
		r.Post("/logout", d.Auth.Logout)
		r.Get("/me", d.Auth.Me)

		// Public reads.
		r.Get("/categories", d.Forum.ListCategories)
		r.Get("/categories/names", d.Forum.CategoryNames)
		r.Get("/categories/{id}", d.Forum.GetCategory)
		r.Get("/topics/{id}", d.Forum.GetTopic)
		r.Get("/comments/{id}", d.Forum.GetComment)

		// Mutations.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/categories", d.Forum.CreateCategory)
			r.Put("/categories/{id}", d.Forum.UpdateCategory)
			r.Delete("/categories/{id}", d.Forum.DeleteCategory)

			r.Post("/topics", d.Forum.CreateTopic)
			r.Put("/topics/{id}", d.Forum.UpdateTopic)
			r.Delete("/topics/{id}", d.Forum.DeleteTopic)

			r.Post("/topics/{id}/comments", d.Forum.CreateComment)
			r.Put("/comments/{id}", d.Forum.UpdateComment)
			r.Delete("/comments/{id}", d.Forum.DeleteComment)
		})
	})

	return r
}

// healthHandler reports {"status":"ok"} when every check passes and 503
// with the failing dependencies otherwise.
func healthHandler(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}

		for name, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			err := c.Ping(ctx)
			cancel()
			if err != nil {
				slog.Warn("health check failed", "dependency", name, "error", err)
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = "unavailable"
				continue
			}
			body[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
