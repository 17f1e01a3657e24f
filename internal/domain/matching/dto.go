package matching

import (
	"time"

	"github.com/google/uuid"
)

// SwipeRequest for POST /swipes
type SwipeRequest struct {
	TargetID string `json:"target_id" validate:"required,uuid"`
	Action   string `json:"action" validate:"required,swipe_action"`
}

// SwipeResponse is the outcome of a recorded swipe
type SwipeResponse struct {
	Matched bool           `json:"matched"`
	Match   *MatchResponse `json:"match,omitempty"`
}

// FeedItemResponse is one entry of the ranked feed
type FeedItemResponse struct {
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	City          string     `json:"city"`
	District      *string    `json:"district,omitempty"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	PhotoVerified bool       `json:"photo_verified"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
	Score         Score      `json:"score"`
}

// MatchResponse is one active match from the caller's perspective
type MatchResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// LikerResponse is one entry of the "who liked me" listing
type LikerResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	LikedAt time.Time `json:"liked_at"`
}

// LikeCountResponse for GET /likes/count
type LikeCountResponse struct {
	Count int64 `json:"count"`
}

// FeedItemFromScored converts a scored candidate to its API shape
func FeedItemFromScored(sc *ScoredCandidate) FeedItemResponse {
	c := &sc.Candidate
	item := FeedItemResponse{
		UserID:        c.UserID,
		Name:          c.Name,
		City:          c.City,
		PhotoVerified: c.PhotoVerified,
		Score:         sc.Score,
	}
	if c.District.Valid {
		item.District = &c.District.String
	}
	if c.AvatarURL.Valid {
		item.AvatarURL = &c.AvatarURL.String
	}
	if c.LastActiveAt.Valid {
		item.LastActiveAt = &c.LastActiveAt.Time
	}
	return item
}

// MatchFromEntity converts a match to its API shape for the given viewer
func MatchFromEntity(m *Match, viewerID uuid.UUID) *MatchResponse {
	return &MatchResponse{
		ID:        m.ID,
		UserID:    m.OtherUser(viewerID),
		MatchedAt: m.MatchedAt,
	}
}
