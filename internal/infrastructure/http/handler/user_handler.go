package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/auth"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// UserHandler handles sign-up, login and account management
type UserHandler struct {
	service *service.UserService
	tokens  *auth.TokenManager
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *service.UserService, tokens *auth.TokenManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error registering user")
		return
	}

	response.JSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login and issues a bearer token
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error signing in")
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, r, h.logger, err, "Error signing in")
		return
	}

	response.JSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}

// UpdateProfile handles PUT /user/profile for the signed-in user
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.UpdateProfileRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), principal.UserID, &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error updating profile")
		return
	}

	response.JSON(w, http.StatusOK, user)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching users")
		return
	}

	response.JSON(w, http.StatusOK, users)
}

// UpdateRole handles PUT /users
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRoleRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	user, err := h.service.UpdateRole(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error updating user")
		return
	}

	response.JSON(w, http.StatusOK, user)
}
