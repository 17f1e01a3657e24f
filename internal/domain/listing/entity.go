package listing

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents listing status (matches listing_status enum)
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Listing represents a room advertised by a user with a room
type Listing struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Title       string `db:"title"`
	Description string `db:"description"`

	City     string         `db:"city"`
	District sql.NullString `db:"district"`
	Address  sql.NullString `db:"address"`

	Rent       int64          `db:"rent"`
	Deposit    sql.NullInt64  `db:"deposit"`
	RoomsTotal int            `db:"rooms_total"`
	Furnished  bool           `db:"furnished"`

	AvailableFrom sql.NullTime   `db:"available_from"`
	PhotoURLs     pq.StringArray `db:"photo_urls"`

	Status    Status `db:"status"`
	ViewCount int    `db:"view_count"`
}

// IsOwnedBy reports whether the given user owns the listing
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID == userID
}
