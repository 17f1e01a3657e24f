package listing

import "errors"

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrNotOwner            = errors.New("not the listing owner")
	ErrInvalidStatusChange = errors.New("invalid status transition")
	ErrListingLimitReached = errors.New("active listing limit reached")
)
