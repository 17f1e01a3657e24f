package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxActiveListings caps how many active listings one user can hold
const maxActiveListings = 3

// Service handles listing business logic
type Service struct {
	repo Repository
}

// NewService creates listing service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create publishes a new listing for the owner
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateListingRequest) (*Listing, error) {
	active, err := s.repo.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if active >= maxActiveListings {
		return nil, ErrListingLimitReached
	}

	l := req.toEntity(ownerID)
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// Get returns a listing and counts the view. Owner views do not count.
func (s *Service) Get(ctx context.Context, viewerID, id uuid.UUID) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}

	if !l.IsOwnedBy(viewerID) {
		if err := s.repo.IncrementViewCount(ctx, id); err != nil {
			log.Warn().Err(err).Str("listing_id", id.String()).Msg("Failed to count listing view")
		} else {
			l.ViewCount++
		}
	}

	return l, nil
}

// Update modifies an owned listing
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req *UpdateListingRequest) (*Listing, error) {
	l, err := s.ownedListing(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	req.apply(l)
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// ChangeStatus moves the listing along draft -> active -> closed. A closed
// listing stays closed.
func (s *Service) ChangeStatus(ctx context.Context, ownerID, id uuid.UUID, next Status) (*Listing, error) {
	l, err := s.ownedListing(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !validStatusChange(l.Status, next) {
		return nil, ErrInvalidStatusChange
	}

	if next == StatusActive && l.Status != StatusActive {
		active, err := s.repo.CountActiveByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if active >= maxActiveListings {
			return nil, ErrListingLimitReached
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	l.Status = next

	return l, nil
}

// Search lists active listings matching the filter
func (s *Service) Search(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Listing, int, error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit < 1 || pagination.Limit > 50 {
		pagination.Limit = 20
	}
	return s.repo.List(ctx, filter, sortBy, pagination)
}

// ListMine lists the owner's listings in any status
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, pagination *Pagination) ([]*Listing, int, error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit < 1 || pagination.Limit > 50 {
		pagination.Limit = 20
	}
	return s.repo.ListByOwner(ctx, ownerID, pagination)
}

func (s *Service) ownedListing(ctx context.Context, ownerID, id uuid.UUID) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}
	if !l.IsOwnedBy(ownerID) {
		return nil, ErrNotOwner
	}
	return l, nil
}

func validStatusChange(current, next Status) bool {
	if current == next {
		return true
	}
	switch current {
	case StatusDraft:
		return next == StatusActive || next == StatusClosed
	case StatusActive:
		return next == StatusClosed
	default:
		return false
	}
}
