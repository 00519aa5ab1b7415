package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultContactRequestLimit = 50

// ContactLister reads stored contact requests, newest first.
type ContactLister interface {
	FindRecent(ctx context.Context, limit int) ([]models.ContactRequest, error)
}

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  ContactLister
}

func newAdminHandler(contacts ContactLister) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
	}
}

// getContactRequests lists stored contact requests
// @Summary List contact requests
// @Description Newest first. Returns an empty list when no database is configured.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of requests (default 50, 0 for all)"
// @Success 200 {array} models.ContactRequest
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /api/admin/contact-requests [get]
func (h adminHandler) getContactRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, _ := ctxGetAdminSubject(r.Context())

		limit := defaultContactRequestLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "Invalid limit"))
				return
			}
			limit = parsed
		}

		if h.contacts == nil {
			h.responder.WriteJSON(w, []models.ContactRequest{})
			return
		}

		requests, err := h.contacts.FindRecent(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "contact requests", err))
			return
		}
		if requests == nil {
			requests = []models.ContactRequest{}
		}

		h.logger.Info().Str("subject", subject).Int("count", len(requests)).Msg("contact requests listed")
		h.responder.WriteJSON(w, requests)
	}
}
