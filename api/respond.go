package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	// Marshal first so a failure can still produce a clean 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteMessage writes {"message": msg}.
func (r Responder) WriteMessage(w http.ResponseWriter, status int, msg string) {
	r.WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError maps err onto its HTTP status. Server-side failures are logged with their full
// cause and answered with a generic body.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) || apiErr.IsServerError() {
		status := http.StatusInternalServerError
		if apiErr != nil {
			status = apiErr.StatusCode
			r.logger.Error().Int("status", status).Msg(apiErr.GetFullError())
		} else {
			r.logger.Error().Err(err).Msg("unexpected error")
		}

		r.WriteJSON(w, status, ErrorResponse{
			Error:  http.StatusText(status),
			Status: "error",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	r.logger.Debug().Int("status", apiErr.StatusCode).Msg(apiErr.GetFullError())

	r.WriteJSON(w, apiErr.StatusCode, response)
}
