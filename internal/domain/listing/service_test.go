package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeListingRepo struct {
	listings map[uuid.UUID]*Listing
	views    map[uuid.UUID]int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: make(map[uuid.UUID]*Listing),
		views:    make(map[uuid.UUID]int),
	}
}

func (r *fakeListingRepo) Create(ctx context.Context, l *Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return r.listings[id], nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l *Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.listings[id].Status = status
	return nil
}

func (r *fakeListingRepo) List(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Listing, int, error) {
	return nil, 0, nil
}

func (r *fakeListingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, pagination *Pagination) ([]*Listing, int, error) {
	var out []*Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, len(out), nil
}

func (r *fakeListingRepo) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	count := 0
	for _, l := range r.listings {
		if l.OwnerID == ownerID && l.Status == StatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeListingRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	r.views[id]++
	r.listings[id].ViewCount++
	return nil
}

func validCreateRequest(publish bool) *CreateListingRequest {
	return &CreateListingRequest{
		Title:       "Sunny room in Kadikoy",
		Description: "Large furnished room in a shared flat close to the ferry.",
		City:        "Istanbul",
		District:    "Kadikoy",
		Rent:        9000,
		RoomsTotal:  3,
		Publish:     publish,
	}
}

func TestCreateListingLimit(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	ownerID := uuid.New()

	for i := 0; i < maxActiveListings; i++ {
		if _, err := svc.Create(context.Background(), ownerID, validCreateRequest(true)); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	_, err := svc.Create(context.Background(), ownerID, validCreateRequest(true))
	if !errors.Is(err, ErrListingLimitReached) {
		t.Fatalf("expected ErrListingLimitReached, got %v", err)
	}

	// drafts do not count toward the limit once under it
	if _, err := svc.ChangeStatus(context.Background(), ownerID, firstListing(repo, ownerID).ID, StatusClosed); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), ownerID, validCreateRequest(false)); err != nil {
		t.Fatalf("draft create after close failed: %v", err)
	}
}

func TestGetCountsViewsForOthersOnly(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	ownerID := uuid.New()

	l, err := svc.Create(context.Background(), ownerID, validCreateRequest(true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), ownerID, l.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if repo.views[l.ID] != 0 {
		t.Fatal("owner views must not count")
	}

	if _, err := svc.Get(context.Background(), uuid.New(), l.ID); err != nil {
		t.Fatalf("visitor get failed: %v", err)
	}
	if repo.views[l.ID] != 1 {
		t.Fatalf("expected 1 counted view, got %d", repo.views[l.ID])
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	ownerID := uuid.New()

	l, err := svc.Create(context.Background(), ownerID, validCreateRequest(true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := &UpdateListingRequest{
		Title:       "Updated room title here",
		Description: "Still a large furnished room close to the ferry docks.",
		City:        "Istanbul",
		Rent:        9500,
		RoomsTotal:  3,
	}

	if _, err := svc.Update(context.Background(), uuid.New(), l.ID, update); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), ownerID, l.ID, update)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Rent != 9500 {
		t.Fatalf("rent not updated: %d", updated.Rent)
	}
}

func TestStatusTransitions(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	ownerID := uuid.New()

	l, err := svc.Create(context.Background(), ownerID, validCreateRequest(false))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if l.Status != StatusDraft {
		t.Fatalf("expected draft, got %s", l.Status)
	}

	if _, err := svc.ChangeStatus(context.Background(), ownerID, l.ID, StatusActive); err != nil {
		t.Fatalf("draft->active failed: %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), ownerID, l.ID, StatusClosed); err != nil {
		t.Fatalf("active->closed failed: %v", err)
	}

	// closed is terminal
	if _, err := svc.ChangeStatus(context.Background(), ownerID, l.ID, StatusActive); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange for closed->active, got %v", err)
	}
}

func TestGetMissingListing(t *testing.T) {
	svc := NewService(newFakeListingRepo())

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func firstListing(repo *fakeListingRepo, ownerID uuid.UUID) *Listing {
	for _, l := range repo.listings {
		if l.OwnerID == ownerID && l.Status == StatusActive {
			return l
		}
	}
	return nil
}
