package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
)

// statusFor maps an error kind onto the HTTP status the client sees.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrKindValidation:
		return http.StatusBadRequest
	case domain.ErrKindUnauthenticated:
		return http.StatusUnauthorized
	case domain.ErrKindForbidden:
		return http.StatusForbidden
	case domain.ErrKindNotFound:
		return http.StatusNotFound
	case domain.ErrKindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.ErrorContext(r.Context(), "Failed to write response", "error", err)
	}
}

// writeError renders err as {error}. Foreign errors never leak their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.ErrorContext(r.Context(), "Unhandled error", "path", r.URL.Path, "error", err)
		de = domain.NewPersistenceError("Internal error", nil)
	}
	status := statusFor(de)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "kind", de.Kind, "error", de.Error())
	}
	writeJSON(w, r, status, domain.Failed(de))
}

func writeSuccess(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, r, http.StatusOK, domain.Succeeded(message))
}
