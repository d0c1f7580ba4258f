// Package router sets up all HTTP routes and middleware chains for the
// Sitecraft backend. Public reads and the token-gated write API live
// under /api; the session-and-CSRF-protected console lives under /admin.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitecraft/internal/admin"
	"sitecraft/internal/api"
	"sitecraft/internal/middleware"
	"sitecraft/internal/session"
	"sitecraft/internal/token"
)

// Options carries everything the router needs wired in.
type Options struct {
	Sessions *session.Store
	API      *api.Handler
	Admin    *admin.Handler
	Tokens   *token.Issuer

	// StaticDir serves uploaded files when local storage is in use.
	// Empty when files live in S3.
	StaticDir string

	// Secure marks cookies Secure; set behind TLS.
	Secure bool

	// Limiter throttles login attempts. Optional.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Uploaded files, when stored on local disk.
	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	// Public REST API plus token-gated writes.
	r.Route("/api", func(r chi.Router) {
		login := http.HandlerFunc(opts.API.Login)
		if opts.Limiter != nil {
			r.With(opts.Limiter.Middleware).Post("/admin/login", login)
		} else {
			r.Post("/admin/login", login)
		}

		r.Route("/{section}", func(r chi.Router) {
			r.Get("/categories", opts.API.ListCategories)
			r.Get("/{kind}", opts.API.List)
			r.Get("/{kind}/{id}", opts.API.Get)

			// Writes require a valid bearer token.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireToken(opts.Tokens))
				r.Post("/categories", opts.API.CreateCategory)
				r.Delete("/{kind}/categories/{value}", opts.API.DeleteCategory)
				r.Post("/{kind}", opts.API.Create)
				r.Put("/{kind}/{id}", opts.API.Update)
				r.Delete("/{kind}/{id}", opts.API.Delete)
			})
		})
	})

	// Console routes — session auth and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadSession(opts.Sessions))

		login := http.HandlerFunc(opts.Admin.Login)
		if opts.Limiter != nil {
			r.With(opts.Limiter.Middleware).Post("/login", login)
		} else {
			r.Post("/login", login)
		}
		r.Post("/logout", opts.Admin.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", opts.Admin.Me)
			r.Get("/dashboard", opts.Admin.Dashboard)

			r.Route("/sections/{section}", func(r chi.Router) {
				r.Get("/", opts.Admin.Section)
				r.Get("/categories", opts.Admin.Categories)
				r.Post("/categories", opts.Admin.CreateCategory)
				r.Delete("/{kind}/categories/{value}", opts.Admin.DeleteCategory)

				// Content writes share the API handlers; only the auth
				// differs (session here, bearer token on /api).
				r.Post("/{kind}", opts.API.Create)
				r.Put("/{kind}/{id}", opts.API.Update)
				r.Delete("/{kind}/{id}", opts.Admin.DeleteItem)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
