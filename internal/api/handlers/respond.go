package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/0x029Ax0/starter-kit-api/internal/api/dto"
	"github.com/0x029Ax0/starter-kit-api/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
}

func writeValidationErrors(w http.ResponseWriter, details map[string]string) {
	resp := dto.Error("Validation failed")
	resp.Details = details
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

// writeServiceError maps domain errors onto status codes. Anything
// unrecognized becomes the generic 500 envelope, with the raw error attached
// unless running in production.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, inProduction bool, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRecoveryCode),
		errors.Is(err, auth.ErrInvalidVerificationCode),
		errors.Is(err, auth.ErrInvalidOAuthState):
		writeJSON(w, http.StatusUnauthorized, dto.Error(err.Error()))
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrProviderMismatch):
		writeJSON(w, http.StatusConflict, dto.Error(err.Error()))
	case errors.Is(err, auth.ErrUnsupportedProvider):
		writeJSON(w, http.StatusUnprocessableEntity, dto.Error(err.Error()))
	default:
		logger.Error("request failed", "error", err)
		resp := dto.Error("Internal Server Error")
		if !inProduction {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}
