// Package router sets up all HTTP routes and middleware chains for the
// Folio catalog API. Category and product routes share one middleware
// stack; uploads are additionally rate limited.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"

	"folio/internal/handlers"
	"folio/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. uploads may be nil, which leaves the upload
// endpoint unthrottled.
func New(catalog *handlers.Catalog, uploads *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chiMid.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalog.CategoryTree)
			r.Get("/flat", catalog.CategoryList)
			r.Get("/{id}/path", catalog.CategoryPath)
			r.Get("/{id}/legal-parents", catalog.CategoryLegalParents)
			r.Put("/{id}/parent", catalog.CategoryMove)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/new", catalog.ProductNew)
			r.Post("/", catalog.ProductCreate)
			r.Get("/{id}/edit", catalog.ProductEdit)
			r.Put("/{id}", catalog.ProductUpdate)
			r.Post("/{id}/quote", catalog.ProductQuote)
			r.Get("/{id}/formats/{formatId}/download", catalog.FormatDownload)
		})

		r.Group(func(r chi.Router) {
			if uploads != nil {
				r.Use(uploads.Middleware)
			}
			r.Post("/uploads", catalog.Upload)
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
