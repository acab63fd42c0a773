package http

import (
	"errors"
	"net/http"

	"moneyx/internal/core"
	"moneyx/internal/log"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps ledger error kinds onto HTTP status codes.
func statusFor(err error) (int, string) {
	if errors.Is(err, core.ErrNoActiveUser) {
		return http.StatusUnauthorized, log.ErrorTypeAuth
	}
	switch core.KindOf(err) {
	case core.ErrNotFound:
		return http.StatusNotFound, log.ErrorTypeNotFound
	case core.ErrInsufficientFunds:
		return http.StatusUnprocessableEntity, log.ErrorTypeFunds
	case core.ErrReferentialIntegrity:
		return http.StatusConflict, log.ErrorTypeConflict
	case core.ErrPreconditionFailed:
		return http.StatusPreconditionFailed, log.ErrorTypeConflict
	case core.ErrValidation:
		return http.StatusBadRequest, log.ErrorTypeValidation
	}
	return http.StatusInternalServerError, log.ErrorTypeInternal
}

// writeError sends err as JSON. Internal errors are logged and their text
// is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}
