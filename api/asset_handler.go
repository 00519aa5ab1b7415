package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type assetHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     assets.Store
}

func newAssetHandler(store assets.Store) assetHandler {
	logger := log.With().Str("handlerName", "assetHandler").Logger()

	return assetHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// getAsset serves a project asset
// @Summary Get a project asset
// @Description Serves the asset variant for the requested locale, falling back to the locale-neutral one. Static deployments redirect to the asset file.
// @Tags Assets
// @Param projectID path string true "Project ID"
// @Param slug path string true "Asset slug, e.g. diagram.png"
// @Param locale query string false "Locale code"
// @Success 200 {file} binary
// @Success 301 "Redirect to /projects/{projectID}/assets/{slug}"
// @Failure 404 {object} ErrorResponse "Asset not found"
// @Failure 500 {object} ErrorResponse "Failed to fetch asset"
// @Router /api/assets/{projectID}/{slug} [get]
func (h assetHandler) getAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		slug := chi.URLParam(r, "slug")
		loc := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("locale")))

		resolved, err := h.store.Asset(r.Context(), projectID, slug, loc)
		switch {
		case errors.Is(err, assets.ErrNotFound):
			h.responder.WriteError(w, errs.NewNotFoundError("Asset not found"))
			return
		case errors.Is(err, assets.ErrEmptyBlob):
			h.responder.WriteError(w, errs.NewNotFoundError("Asset has no binary data"))
			return
		case err != nil:
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to fetch asset", err))
			return
		}

		if resolved.IsRedirect() {
			h.responder.Redirect(w, r, resolved.Location)
			return
		}
		h.responder.WriteBinary(w, resolved.Data, resolved.MimeType, resolved.CacheControl)
	}
}
