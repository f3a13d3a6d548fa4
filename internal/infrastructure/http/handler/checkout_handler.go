package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// CheckoutHandler prices carts
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(service *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

// Quote handles POST /checkout
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error processing checkout")
		return
	}

	response.JSON(w, http.StatusOK, quote)
}
