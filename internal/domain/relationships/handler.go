package relationships

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/response"
)

// Handler handles block HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates relationships handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BlockedUserResponse represents a blocked user in API responses
type BlockedUserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	BlockedAt string    `json:"blocked_at"`
}

// BlockUser handles POST /users/{id}/block
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.BlockUser(r.Context(), userID, targetUserID); err != nil {
		if errors.Is(err, ErrCannotBlockSelf) {
			response.Error(w, http.StatusBadRequest, "CANNOT_BLOCK_SELF", err.Error())
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to block user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// UnblockUser handles DELETE /users/{id}/block
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.UnblockUser(r.Context(), userID, targetUserID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to unblock user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// ListBlocked handles GET /users/me/blocked
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	blocks, err := h.service.ListMyBlocks(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list blocks")
		response.InternalError(w)
		return
	}

	items := make([]*BlockedUserResponse, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, &BlockedUserResponse{
			UserID:    block.BlockedUserID,
			BlockedAt: block.CreatedAt.Format(time.RFC3339),
		})
	}

	response.OK(w, items)
}
