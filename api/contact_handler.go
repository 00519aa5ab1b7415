package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SignorelliLorenzo/portfolio/contact"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxContactBodySize bounds the contact form payload.
const maxContactBodySize = 64 * 1024

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *contact.Service
}

func newContactHandler(service *contact.Service) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// submitContact accepts a contact form submission
// @Summary Submit the contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param submission body contact.Submission true "Contact form"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} ErrorResponse "Missing required fields, invalid email or short message"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxContactBodySize)

		var sub contact.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxContactBodySize))
				return
			}
			h.logger.Warn().Err(err).Msg("undecodable contact payload")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("contact", err))
			return
		}

		if err := h.service.Submit(r.Context(), sub, contact.ClientIP(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ContactResponse{
			Success: true,
			Message: "Message received successfully",
		})
	}
}
