package matching

import (
	"bytes"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/domain/profile"
)

// SwipeAction is the direction of a swipe decision
type SwipeAction string

const (
	ActionLike SwipeAction = "like"
	ActionPass SwipeAction = "pass"
)

// Swipe is a directional edge from swiper to swiped. The composite
// (swiper_id, swiped_id) primary key guarantees a single row per ordered pair;
// re-swiping overwrites the action in place. Rows are never deleted.
type Swipe struct {
	SwiperID  uuid.UUID   `db:"swiper_id"`
	SwipedID  uuid.UUID   `db:"swiped_id"`
	Action    SwipeAction `db:"action"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// Match is an undirected edge stored with canonical ordering
// user_first_id < user_second_id, so each unordered pair has exactly one row.
// A non-null unmatched_at is terminal; the row is never reactivated or
// hard-deleted.
type Match struct {
	ID           uuid.UUID    `db:"id"`
	UserFirstID  uuid.UUID    `db:"user_first_id"`
	UserSecondID uuid.UUID    `db:"user_second_id"`
	MatchedAt    time.Time    `db:"matched_at"`
	UnmatchedAt  sql.NullTime `db:"unmatched_at"`
}

// IsActive reports whether the match has not been dissolved
func (m *Match) IsActive() bool {
	return !m.UnmatchedAt.Valid
}

// OtherUser returns the participant that is not the given user
func (m *Match) OtherUser(userID uuid.UUID) uuid.UUID {
	if m.UserFirstID == userID {
		return m.UserSecondID
	}
	return m.UserFirstID
}

// CanonicalPair orders two user IDs so an unordered relationship has exactly
// one storage representation.
func CanonicalPair(a, b uuid.UUID) (first, second uuid.UUID) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}

// Candidate is one row of the eligibility pool: the candidate's profile and
// preference attributes the scorer consumes, joined in a single query.
type Candidate struct {
	UserID        uuid.UUID             `db:"user_id"`
	Name          string                `db:"name"`
	Gender        profile.Gender        `db:"gender"`
	City          string                `db:"city"`
	District      sql.NullString        `db:"district"`
	AvatarURL     sql.NullString        `db:"avatar_url"`
	PhotoVerified bool                  `db:"photo_verified"`
	LastActiveAt  sql.NullTime          `db:"last_active_at"`
	BudgetMin     sql.NullInt64         `db:"budget_min"`
	BudgetMax     sql.NullInt64         `db:"budget_max"`
	Smoking       profile.SmokingHabit  `db:"smoking"`
	Pets          profile.PetPreference `db:"pets"`
	Alcohol       profile.AlcoholUse    `db:"alcohol"`
}

// HasPhoto returns true if the candidate has an avatar set
func (c *Candidate) HasPhoto() bool {
	return c.AvatarURL.Valid && c.AvatarURL.String != ""
}

// FeedContext is the requester's side of feed generation: their profile and
// active preferences. Both must exist before a feed can be built.
type FeedContext struct {
	UserID  uuid.UUID
	Profile *profile.Profile
	Prefs   *profile.Preferences
}

// ScoredCandidate pairs a pool candidate with its compatibility score
type ScoredCandidate struct {
	Candidate Candidate
	Score     Score
}

// Liker is one entry of the "who liked me" listing
type Liker struct {
	SwiperID  uuid.UUID `db:"swiper_id"`
	UpdatedAt time.Time `db:"updated_at"`
}
