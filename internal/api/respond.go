package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rgault/splitpot/internal/auth"
	"github.com/rgault/splitpot/internal/service"
	"github.com/rgault/splitpot/internal/storage"
)

// errorResponse is the JSON error envelope: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the error taxonomy onto HTTP status codes:
// Conflict 409, NotFound 404, bad credentials 401, invalid input 400,
// anything else 500 without leaking internals.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := err.Error()

	switch {
	case errors.Is(err, storage.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		detail = "internal error"
	}

	respondJSON(w, status, errorResponse{Detail: detail})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.ErrInvalidInput
	}
	return nil
}
