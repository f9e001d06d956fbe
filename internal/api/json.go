package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps an error kind to its status. Unclassified errors are
// logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrMissingToken), errors.Is(err, apperr.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidToken):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeJSON(w, status, errorBody("Server error"))
		return
	}

	msg, ok := apperr.Message(err)
	if !ok {
		msg = defaultMessage(err)
	}
	writeJSON(w, status, errorBody(msg))
}

func defaultMessage(err error) string {
	switch {
	case errors.Is(err, apperr.ErrMissingToken):
		return "No token provided"
	case errors.Is(err, apperr.ErrInvalidToken):
		return "Invalid or expired token"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return "Invalid password"
	case errors.Is(err, apperr.ErrNotFound):
		return "Not found"
	default:
		return "Invalid request"
	}
}

// decodeJSON reads a JSON body capped at limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	var tooBig *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooBig):
		return apperr.Invalid("Request body too large")
	case errors.Is(err, io.EOF):
		return apperr.Invalid("Request body is required")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperr.Invalid("Field %s has the wrong type", typeErr.Field)
	default:
		return apperr.Invalid("Invalid JSON body")
	}
}
