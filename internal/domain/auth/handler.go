package auth

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Conflict(w, "Email is already registered")
			return
		}
		log.Error().Err(err).Msg("Failed to register user")
		response.InternalError(w)
		return
	}

	response.Created(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or password")
		case errors.Is(err, ErrAccountNotActive):
			response.Forbidden(w, "Account is not active")
		default:
			log.Error().Err(err).Msg("Failed to log in user")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshTokenRequired), errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrUserNotFound):
			response.Unauthorized(w, "Invalid refresh token")
		default:
			log.Error().Err(err).Msg("Failed to refresh tokens")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		log.Error().Err(err).Msg("Failed to log out")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load current user")
		response.InternalError(w)
		return
	}

	response.OK(w, resp)
}

// DeleteAccount handles DELETE /auth/me
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete account")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}
