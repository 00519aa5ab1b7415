package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupPublicRoutes registers the read-only site API and the contact form
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/projects/{projectID}/image", handlers.projectHandler.getProjectImage())

		r.Get("/assets/{projectID}/{slug}", handlers.assetHandler.getAsset())

		r.Post("/contact", handlers.contactHandler.submitContact())
	})
}

// setupAdminRoutes registers routes behind bearer authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/api/admin/contact-requests", handlers.adminHandler.getContactRequests())
	})
}

func setupOperationalRoutes(r chi.Router, handlers *routeHandlers, deps Dependencies) {
	r.Get("/health", handlers.healthHandler.getHealth())
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
}

// setupStaticRoutes serves public/projects/** so the redirects issued by the
// static asset store resolve.
func setupStaticRoutes(r chi.Router, public fs.FS) {
	if public == nil {
		return
	}
	r.Handle("/projects/*", http.FileServer(http.FS(public)))
}
