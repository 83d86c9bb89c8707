package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/session"
)

// setupPublicRoutes sets up the portfolio pages
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/", handlers.pageHandler.home())
	r.Post("/contact", handlers.pageHandler.submitContact())
	r.Get("/projects", handlers.pageHandler.projects())
	r.Get("/healthz", handlers.healthHandler.health())
}

// setupObjectRoutes serves uploaded images when the storage backend can
// serve them itself (DB_TYPE=memory). Supabase serves its own bucket URLs.
func setupObjectRoutes(r chi.Router, storage backend.Storage) {
	objects, ok := storage.(http.Handler)
	if !ok {
		return
	}
	r.Method(http.MethodGet, backend.PublicObjectPath+"/*", http.StripPrefix(backend.PublicObjectPath, objects))
	r.Method(http.MethodHead, backend.PublicObjectPath+"/*", http.StripPrefix(backend.PublicObjectPath, objects))
}

// setupAdminRoutes sets up the admin panel pages behind the session guard
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, guard *session.Guard) {
	r.Route("/admin", func(r chi.Router) {
		// Require lets the login page through
		r.Use(guard.Require)

		r.Get("/login", handlers.adminHandler.loginPage())
		r.Post("/login", handlers.adminHandler.login())

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		})
		r.Post("/logout", handlers.adminHandler.logout())
		r.Get("/dashboard", handlers.adminHandler.dashboard())

		r.Get("/projects", handlers.adminHandler.listProjects())
		r.Get("/projects/new", handlers.adminHandler.newProjectForm())
		r.Post("/projects/new", handlers.adminHandler.createProject())
		r.Get("/projects/{id}/edit", handlers.adminHandler.editProjectForm())
		r.Post("/projects/{id}/edit", handlers.adminHandler.updateProject())
		r.Get("/projects/{id}/delete", handlers.adminHandler.confirmDeleteProject())
		r.Post("/projects/{id}/delete", handlers.adminHandler.deleteProject())

		r.Get("/messages", handlers.adminHandler.listMessages())
		r.Get("/messages/{id}/delete", handlers.adminHandler.confirmDeleteMessage())
		r.Post("/messages/{id}/delete", handlers.adminHandler.deleteMessage())
	})
}

// setupAPIRoutes sets up the JSON API, mounted under /api
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, guard *session.Guard) {
	r.Get("/projects", handlers.projectHandler.getProjects())
	r.Get("/categories", handlers.projectHandler.getCategories())
	r.Post("/contact", handlers.messageHandler.createMessage())

	r.Group(func(r chi.Router) {
		r.Use(guard.Require)

		r.Get("/admin/projects", handlers.projectHandler.getAllProjects())
		r.Post("/admin/projects", handlers.projectHandler.createProject())
		r.Get("/admin/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/admin/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/admin/projects/{projectID}", handlers.projectHandler.deleteProject())

		r.Get("/admin/messages", handlers.messageHandler.getAllMessages())
		r.Delete("/admin/messages/{messageID}", handlers.messageHandler.deleteMessage())
	})
}
