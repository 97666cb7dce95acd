package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/models"
)

// setupRoutes mounts the public API and the admin-only mutations under /api.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("rodando"))
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API do portfólio está no ar"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", handlers.authHandler.login())
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{id}", handlers.projectHandler.getProject())
		r.Get("/skills", handlers.technologyHandler.getSkills())
		r.Get("/my-skills", handlers.technologyHandler.getMySkills())
		r.Post("/contact", handlers.contactHandler.createContact())

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Use(authMiddleware.requireRole(models.RoleAdmin))

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{id}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())

			r.Post("/my-skills", handlers.technologyHandler.createSkill())

			r.Get("/contact", handlers.contactHandler.listContacts())
			r.Patch("/contact/{id}", handlers.contactHandler.markContactRead())

			if handlers.uploadHandler != nil {
				r.Post("/uploads", handlers.uploadHandler.uploadImage())
			}
		})
	})
}
