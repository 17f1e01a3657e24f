package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/validator"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMe handles GET /profiles/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.Error(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load profile")
		response.InternalError(w)
		return
	}

	response.OK(w, ProfileFromEntity(p))
}

// UpsertMe handles PUT /profiles/me
func (h *Handler) UpsertMe(w http.ResponseWriter, r *http.Request) {
	var req UpsertProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.UpsertProfile(r.Context(), userID, &req)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upsert profile")
		response.InternalError(w)
		return
	}

	response.OK(w, ProfileFromEntity(p))
}

// GetByID handles GET /profiles/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.Error(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load profile")
		response.InternalError(w)
		return
	}

	response.OK(w, ProfileFromEntity(p))
}

// GetMyPreferences handles GET /profiles/me/preferences
func (h *Handler) GetMyPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrPreferencesNotFound) {
			response.Error(w, http.StatusNotFound, "PREFERENCES_NOT_FOUND", "Preferences not found")
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load preferences")
		response.InternalError(w)
		return
	}

	response.OK(w, PreferencesFromEntity(p))
}

// UpsertMyPreferences handles PUT /profiles/me/preferences
func (h *Handler) UpsertMyPreferences(w http.ResponseWriter, r *http.Request) {
	var req UpsertPreferencesRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.UpsertPreferences(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidBudgetRange) {
			response.Error(w, http.StatusBadRequest, "INVALID_BUDGET_RANGE", err.Error())
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upsert preferences")
		response.InternalError(w)
		return
	}

	response.OK(w, PreferencesFromEntity(p))
}
