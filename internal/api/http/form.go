package http

import (
	"net/http"
	"strconv"
	"strings"

	"facility-admin-backend/internal/domain"
)

const maxFormBytes = 1 << 20

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return domain.NewValidationError("Invalid form submission.")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return domain.NewValidationError("Invalid form submission.")
	}
	return nil
}

// parseID reads a positive 32-bit id. Blank values report missing.
func parseID(raw, label string) (int32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError("%s is required.", label)
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return 0, domain.NewValidationError("%s must be a positive integer.", label)
	}
	return int32(v), nil
}

func requiredID(r *http.Request, field, label string) (int32, error) {
	return parseID(r.PostFormValue(field), label)
}

// optionalID treats a blank field as absent.
func optionalID(r *http.Request, field, label string) (*int32, error) {
	if strings.TrimSpace(r.PostFormValue(field)) == "" {
		return nil, nil
	}
	v, err := parseID(r.PostFormValue(field), label)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalString(r *http.Request, field string) *string {
	v := r.PostFormValue(field)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
