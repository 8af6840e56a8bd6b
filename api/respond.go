package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/project-showcase-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON marshals data and writes it with statusCode. Each call writes the
// header exactly once.
func (r Responder) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		r.writeFallback(w)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) writeFallback(w http.ResponseWriter) {
	body, _ := json.Marshal(ErrorEnvelope{Success: false, Message: msgInternalError})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(body)
}

// Success writes {success:true, message, results}
func (r Responder) Success(w http.ResponseWriter, message string, results any, statusCode int) {
	r.WriteJSON(w, statusCode, SuccessEnvelope{
		Success: true,
		Message: message,
		Results: results,
	})
}

// Error writes {success:false, message}
func (r Responder) Error(w http.ResponseWriter, message string, statusCode int) {
	r.WriteJSON(w, statusCode, ErrorEnvelope{
		Success: false,
		Message: message,
	})
}

// Validation writes the field errors with 422 Unprocessable Entity
func (r Responder) Validation(w http.ResponseWriter, verr *errs.ValidationError) {
	r.WriteJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{
		Success: false,
		Message: msgValidationError,
		Errors:  verr.Fields,
	})
}

// WriteError maps err onto an envelope. Server-side failures are logged and
// collapsed to a generic message so no internals reach the caller.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		r.Validation(w, verr)
		return
	}

	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("field", apiErr.Field).
			Msg(apiErr.GetFullError())
		r.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	r.Error(w, apiErr.Message(), apiErr.StatusCode)
}
