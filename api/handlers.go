package api

import (
	"io/fs"

	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/contact"
	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies are the collaborators the HTTP surface is built from. The
// content source has already been chosen by the time they reach the router.
type Dependencies struct {
	Resolver *projects.Resolver
	Assets   assets.Store
	Contact  *contact.Service
	Inliner  *images.Inliner
	// ContactRequests is nil when no database is configured.
	ContactRequests ContactLister
	Public          fs.FS
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, r router) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(deps.Resolver, deps.Assets, deps.Inliner),
		assetHandler:   newAssetHandler(deps.Assets),
		contactHandler: newContactHandler(deps.Contact),
		adminHandler:   newAdminHandler(deps.ContactRequests),
		healthHandler:  newHealthHandler(deps.Resolver.SourceName(), r.startupTime),
	}
}
