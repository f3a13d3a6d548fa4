package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// writeError maps service errors to HTTP statuses. Anything unrecognised is
// a 500 carrying only the fallback message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Error(), verr.Fields)
	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidUserEmail),
		errors.Is(err, domain.ErrIncorrectPassword),
		errors.Is(err, domain.ErrEmptyCart):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrUserNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), fallback,
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, fallback)
	}
}

// decode reads a JSON request body into dst, answering 400 on failure
func decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
