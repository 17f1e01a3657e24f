package photo

import (
	"time"

	"github.com/google/uuid"
)

// ReorderRequest for PATCH /photos/reorder
type ReorderRequest struct {
	PhotoIDs []uuid.UUID `json:"photo_ids" validate:"required,min=1"`
}

// PhotoResponse represents photo in API response
type PhotoResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	IsAvatar     bool      `json:"is_avatar"`
	Verified     bool      `json:"verified"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    string    `json:"created_at"`
}

// PhotoResponseFromEntity converts entity to response DTO
func PhotoResponseFromEntity(p *Photo) *PhotoResponse {
	return &PhotoResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		URL:          p.URL,
		ThumbnailURL: p.ThumbnailURL,
		IsAvatar:     p.IsAvatar,
		Verified:     p.Verified,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
