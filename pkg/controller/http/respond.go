package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secmon-lab/warden/pkg/domain/model"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response. Wrapped error details stay out of the
// response body; clients get the top-level message only.
func writeError(w http.ResponseWriter, err error, status int) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusForDomainError maps domain sentinel errors to HTTP statuses
func statusForDomainError(err error) int {
	switch {
	case errors.Is(err, model.ErrCaseNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrHuntNotFound),
		errors.Is(err, model.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, model.ErrBadCredentials),
		errors.Is(err, model.ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrLastTeamMember):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
