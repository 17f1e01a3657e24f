package matching

import "errors"

var (
	// ErrContextNotFound: requester has no profile or no preferences record
	ErrContextNotFound = errors.New("profile and preferences are required before matching")
	// ErrCannotSwipeSelf: swiper and target are the same user
	ErrCannotSwipeSelf = errors.New("cannot swipe on yourself")
	// ErrSwipeTargetNotFound: target does not exist or is soft-deleted
	ErrSwipeTargetNotFound = errors.New("swipe target not found")
	// ErrBlockedInteraction: a block exists between the pair in either direction
	ErrBlockedInteraction = errors.New("interaction is blocked between these users")
	// ErrMatchNotFound: match does not exist, requester is not a participant,
	// or the match is already unmatched. Deliberately covers the unauthorized
	// case so match existence is not leaked to non-participants.
	ErrMatchNotFound = errors.New("match not found")
)
