package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// ContactHandler handles the contact form
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(service *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{service: service, logger: logger}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	resp, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error submitting contact form")
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// List handles GET /contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.ListContacts(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching contacts")
		return
	}

	response.JSON(w, http.StatusOK, contacts)
}
