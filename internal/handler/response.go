package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// ERROR SHAPE:
// Every error response from this API is {"message": "..."} — that's the
// shape the deployed client parses, for auth failures and internal errors
// alike. Machine-readable detail stays in the status code.
//
// Two outcomes the client treats as data rather than errors bypass
// writeError entirely: a duplicate registration (HTTP redirect to /login)
// and a failed note search ({"message":"false"} with status 200). Those
// live in their handlers.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/notekeeper/internal/apperror"
)

// messageResponse is the standard error/status body: {"message": "..."}.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE writing the body — the first
// w.Write() (which Encode does internally) sends them, and changes after
// that are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — we can only log it. Rare in
			// practice (usually means an unencodable type like a channel).
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends it.
//
// This is the handler-boundary translation: the service layer returns
// apperror values (ErrUnauthorized, ErrNotFound, ...) with client-safe
// messages, and this function picks the status. Anything unrecognised is a
// 500 with a generic body — raw error strings can contain SQL fragments or
// file paths and never reach the client.
//
// errors.Is() walks the whole wrapped chain, so services are free to add
// context with fmt.Errorf("...: %w", err) without breaking the mapping.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, messageResponse{Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, messageResponse{
		Message: "Internal Server Error",
	})
}
