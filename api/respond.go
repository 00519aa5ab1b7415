package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/rs/zerolog"
)

// maxResponseSize caps JSON bodies; inlined images make listings large.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")

		truncatedJSON, err := json.Marshal(ErrorResponse{
			Error:   "Response too large",
			Details: "The requested data exceeds the maximum response size",
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write(truncatedJSON)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	}

	response := ErrorResponse{
		Error: apiErr.Message(),
		Field: apiErr.Field,
	}
	// Details of server-side failures stay in the logs.
	if apiErr.StatusCode < http.StatusInternalServerError {
		response.Details = apiErr.Details
	}
	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteMessage answers with {"error": message}.
func (r Responder) WriteMessage(w http.ResponseWriter, status int, message string) {
	r.WriteJSONStatus(w, status, ErrorResponse{Error: message})
}

// WriteBinary streams a payload with an explicit content type and cache policy.
func (r Responder) WriteBinary(w http.ResponseWriter, data []byte, mimeType, cacheControl string) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		r.logger.Error().Err(err).Msg("error writing binary response")
	}
}

// Redirect sends a permanent redirect to location.
func (r Responder) Redirect(w http.ResponseWriter, req *http.Request, location string) {
	http.Redirect(w, req, location, http.StatusMovedPermanently)
}
