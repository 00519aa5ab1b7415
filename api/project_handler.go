package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/SignorelliLorenzo/portfolio/locale"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	resolver  *projects.Resolver
	store     assets.Store
	inliner   *images.Inliner
}

func newProjectHandler(resolver *projects.Resolver, store assets.Store, inliner *images.Inliner) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		resolver:  resolver,
		store:     store,
		inliner:   inliner,
	}
}

// requestLocale reads ?locale=, falling back to the default locale for
// missing or unsupported values.
func requestLocale(r *http.Request) locale.Locale {
	return locale.Parse(r.URL.Query().Get("locale"))
}

// getAllProjects lists every project for a locale
// @Summary Get all projects
// @Description Lists projects from the live source, or the bundled dataset when the source is unavailable or empty
// @Tags Projects
// @Produce json
// @Param locale query string false "en or it"
// @Param inline query bool false "Inline cover images as data URLs"
// @Success 200 {array} models.Project "Projects ordered by display order"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc := requestLocale(r)
		list := h.resolver.List(r.Context(), loc)

		if inline, _ := strconv.ParseBool(r.URL.Query().Get("inline")); inline && h.inliner != nil {
			for i := range list {
				if list[i].Image == nil {
					continue
				}
				dataURL := h.inliner.DataURL(*list[i].Image)
				list[i].Image = &dataURL
			}
		}

		h.responder.WriteJSON(w, list)
	}
}

// getProject returns one project for a locale
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Param locale query string false "en or it"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		project, err := h.resolver.Get(r.Context(), projectID, requestLocale(r))
		if errors.Is(err, projects.ErrNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to fetch project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getProjectImage serves the cover image of a project
// @Summary Get a project cover image
// @Description Serves the stored cover bytes, or redirects to the static cover file
// @Tags Projects
// @Produce image/png,image/jpeg,image/webp,image/svg+xml
// @Param projectID path string true "Project ID"
// @Success 200 {file} binary
// @Success 301 "Redirect to the static cover"
// @Failure 404 {object} ErrorResponse "Image not found"
// @Failure 500 {object} ErrorResponse "Unable to load image"
// @Router /api/projects/{projectID}/image [get]
func (h projectHandler) getProjectImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		resolved, err := h.store.Cover(r.Context(), projectID)
		if errors.Is(err, assets.ErrNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("Image not found"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Unable to load image", err))
			return
		}

		if resolved.IsRedirect() {
			h.responder.Redirect(w, r, resolved.Location)
			return
		}
		h.responder.WriteBinary(w, resolved.Data, resolved.MimeType, resolved.CacheControl)
	}
}
