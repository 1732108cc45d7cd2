package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/handlers"
)

func init() { Register(registerTools) }

// registerTools mounts the page, the form actions and the JSON API. They all
// share the session cookie; the two add routes also share one rate limiter.
func registerTools(r chi.Router, d deps.Deps) {
	limiter := addLimiter(d)
	read := timeout(d.RequestTimeout)
	add := timeout(d.EnrichTimeout)

	r.Group(func(r chi.Router) {
		r.Use(sessions(d))

		r.With(read).Get("/", handlers.Index(d))
		r.With(read).Post("/login", handlers.Login(d))
		r.With(limiter.Handler(handlers.FormRateLimited), add).Post("/tools", handlers.AddTool(d))
		r.With(read).Post("/tools/{id}/delete", handlers.DeleteTool(d))

		r.Route("/api", func(r chi.Router) {
			r.With(read).Get("/tools", handlers.APITools(d))
			r.With(read).Get("/categories", handlers.APICategories(d))
			r.With(read).Post("/login", handlers.APILogin(d))
			r.With(limiter.Handler(handlers.APIRateLimited), add).Post("/tools", handlers.APIAddTool(d))
			r.With(read).Delete("/tools/{id}", handlers.APIDeleteTool(d))
		})
	})
}
