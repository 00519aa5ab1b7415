package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	source      string
	startupTime time.Time
}

func newHealthHandler(source string, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		source:      source,
		startupTime: startupTime,
	}
}

// getHealth reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(0)
		if !h.startupTime.IsZero() {
			uptime = int64(time.Since(h.startupTime).Seconds())
		}
		h.responder.WriteJSON(w, HealthResponse{
			Status:        "ok",
			Source:        h.source,
			UptimeSeconds: uptime,
		})
	}
}
