package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/pkg/pagination"
)

// Repository owns all writes to swipes and matches, and the pool query that
// feeds scoring. Cross-request mutual exclusion lives entirely in the storage
// constraints this interface fronts: the composite swipe key, the unique
// canonical match pair, and the conditional unmatch update.
type Repository interface {
	// CandidatePool returns candidates passing every hard filter for the
	// requester's context. An empty pool is a valid result.
	CandidatePool(ctx context.Context, fc *FeedContext) ([]Candidate, error)

	// UpsertSwipe atomically inserts or overwrites the (swiper, swiped) row
	// and fills in storage-assigned timestamps.
	UpsertSwipe(ctx context.Context, swipe *Swipe) error

	// HasLikeFrom reports whether swiper has an active like directed at swiped.
	HasLikeFrom(ctx context.Context, swiperID, swipedID uuid.UUID) (bool, error)

	// CreateMatch inserts the canonicalized pair, ignoring conflicts. Returns
	// nil when the pair already has a match row (not an error): the first
	// caller to reach storage wins.
	CreateMatch(ctx context.Context, a, b uuid.UUID) (*Match, error)

	// Unmatch terminally dissolves the match if matchID exists, requester is a
	// participant and the match is still active; ErrMatchNotFound otherwise.
	Unmatch(ctx context.Context, requesterID uuid.UUID, matchID uuid.UUID) error

	// HasActiveMatch reports whether the unordered pair has an active match.
	HasActiveMatch(ctx context.Context, a, b uuid.UUID) (bool, error)

	// ListActiveMatches returns the user's active matches, newest first.
	ListActiveMatches(ctx context.Context, userID uuid.UUID) ([]*Match, error)

	// GetLikers lists users with an active like on userID, excluding users
	// userID has passed on, with cursor pagination.
	GetLikers(ctx context.Context, userID uuid.UUID, token *string, limit int) ([]Liker, *string, error)

	// CountLikers counts users with an active like on userID, excluding users
	// userID has passed on.
	CountLikers(ctx context.Context, userID uuid.UUID) (int64, error)
}

func decodeToken(token *string) (pagination.Cursor, error) {
	if token == nil {
		return pagination.Cursor{}, nil
	}
	return pagination.Decode(*token)
}
