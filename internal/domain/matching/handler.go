package matching

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/validator"
)

const defaultLikersLimit = 20

// Handler handles feed, swipe and match HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates matching handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetFeed handles GET /feed
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	feed, err := h.service.BuildRankedFeed(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrContextNotFound) {
			response.Error(w, http.StatusNotFound, "CONTEXT_NOT_FOUND", "Complete your profile and preferences first")
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build feed")
		response.InternalError(w)
		return
	}

	items := make([]FeedItemResponse, 0, len(feed))
	for i := range feed {
		items = append(items, FeedItemFromScored(&feed[i]))
	}

	response.OK(w, items)
}

// Swipe handles POST /swipes
func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	var req SwipeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		response.BadRequest(w, "Invalid target_id")
		return
	}

	result, err := h.service.Swipe(r.Context(), userID, targetID, SwipeAction(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotSwipeSelf):
			response.Error(w, http.StatusUnprocessableEntity, "CANNOT_SWIPE_SELF", "You cannot swipe on yourself")
		case errors.Is(err, ErrSwipeTargetNotFound):
			response.Error(w, http.StatusNotFound, "SWIPE_TARGET_NOT_FOUND", "Swipe target does not exist")
		case errors.Is(err, ErrBlockedInteraction):
			response.Error(w, http.StatusForbidden, "BLOCKED_INTERACTION", "Interaction with this user is not allowed")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Str("target_id", targetID.String()).Msg("Failed to record swipe")
			response.InternalError(w)
		}
		return
	}

	resp := SwipeResponse{Matched: result.Matched}
	if result.Match != nil {
		resp.Match = MatchFromEntity(result.Match, userID)
	}

	response.OK(w, resp)
}

// ListMatches handles GET /matches
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	matches, err := h.service.ListMatches(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list matches")
		response.InternalError(w)
		return
	}

	items := make([]*MatchResponse, 0, len(matches))
	for _, m := range matches {
		items = append(items, MatchFromEntity(m, userID))
	}

	response.OK(w, items)
}

// Unmatch handles DELETE /matches/{id}
func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid match ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Unmatch(r.Context(), userID, matchID); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			response.Error(w, http.StatusNotFound, "MATCH_NOT_FOUND", "Match not found")
			return
		}
		log.Error().Err(err).Str("match_id", matchID.String()).Msg("Failed to unmatch")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// ListLikers handles GET /likes
func (h *Handler) ListLikers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := defaultLikersLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var token *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		token = &raw
	}

	likers, next, err := h.service.ListLikers(r.Context(), userID, token, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list likers")
		response.InternalError(w)
		return
	}

	items := make([]LikerResponse, 0, len(likers))
	for _, l := range likers {
		items = append(items, LikerResponse{UserID: l.SwiperID, LikedAt: l.UpdatedAt})
	}

	response.OK(w, map[string]interface{}{
		"likers":      items,
		"next_cursor": next,
	})
}

// CountLikes handles GET /likes/count
func (h *Handler) CountLikes(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	count, err := h.service.CountLikes(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to count likes")
		response.InternalError(w)
		return
	}

	response.OK(w, LikeCountResponse{Count: count})
}
