package photo

import (
	"time"

	"github.com/google/uuid"
)

// Photo is the metadata row for an uploaded profile photo. The image
// bytes live in object storage under Key; ThumbKey is filled by the
// image worker once the thumbnail has been rendered.
type Photo struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Key          string    `db:"key" json:"-"`
	ThumbKey     string    `db:"thumb_key" json:"-"`
	URL          string    `db:"url" json:"url"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	OriginalName string    `db:"original_name" json:"original_name"`
	ContentType  string    `db:"content_type" json:"content_type"`
	SizeBytes    int64     `db:"size_bytes" json:"size_bytes"`
	IsAvatar     bool      `db:"is_avatar" json:"is_avatar"`
	Verified     bool      `db:"verified" json:"verified"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// IsOwnedBy checks photo ownership
func (p *Photo) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}
