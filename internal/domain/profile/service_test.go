package profile

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	profiles    map[uuid.UUID]*Profile
	preferences map[uuid.UUID]*Preferences
	creates     int
	updates     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:    make(map[uuid.UUID]*Profile),
		preferences: make(map[uuid.UUID]*Preferences),
	}
}

func (r *fakeRepo) CreateProfile(ctx context.Context, p *Profile) error {
	r.creates++
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return r.profiles[userID], nil
}

func (r *fakeRepo) UpdateProfile(ctx context.Context, p *Profile) error {
	r.updates++
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeRepo) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string, verified bool) error {
	return nil
}

func (r *fakeRepo) TouchLastActive(ctx context.Context, userID uuid.UUID) error { return nil }

func (r *fakeRepo) UpsertPreferences(ctx context.Context, p *Preferences) error {
	r.preferences[p.UserID] = p
	return nil
}

func (r *fakeRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	return r.preferences[userID], nil
}

func TestUpsertProfileCreatesThenUpdates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	userID := uuid.New()

	_, err := svc.UpsertProfile(context.Background(), userID, &UpsertProfileRequest{
		Name: "Ayse", Gender: "female", City: "Istanbul", District: "Kadikoy",
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if repo.creates != 1 || repo.updates != 0 {
		t.Fatalf("expected 1 create and 0 updates, got %d/%d", repo.creates, repo.updates)
	}

	_, err = svc.UpsertProfile(context.Background(), userID, &UpsertProfileRequest{
		Name: "Ayse", Gender: "female", City: "Istanbul", District: "Besiktas",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if repo.creates != 1 || repo.updates != 1 {
		t.Fatalf("expected 1 create and 1 update, got %d/%d", repo.creates, repo.updates)
	}
}

func TestUpsertProfileKeepsAvatarOnUpdate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	userID := uuid.New()

	repo.profiles[userID] = &Profile{
		UserID:        userID,
		Name:          "Ayse",
		City:          "Istanbul",
		AvatarURL:     sql.NullString{String: "https://cdn.roomly.app/a.jpg", Valid: true},
		PhotoVerified: true,
	}

	p, err := svc.UpsertProfile(context.Background(), userID, &UpsertProfileRequest{
		Name: "Ayse", Gender: "female", City: "Istanbul",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !p.HasPhoto() || !p.PhotoVerified {
		t.Fatal("expected avatar and verification flag to survive a profile update")
	}
}

func TestUpsertPreferencesRejectsInvertedBudget(t *testing.T) {
	svc := NewService(newFakeRepo())

	min, max := int64(8000), int64(3000)
	_, err := svc.UpsertPreferences(context.Background(), uuid.New(), &UpsertPreferencesRequest{
		HousingType: "looking_for_roommate",
		BudgetMin:   &min,
		BudgetMax:   &max,
	})
	if err != ErrInvalidBudgetRange {
		t.Fatalf("expected ErrInvalidBudgetRange, got %v", err)
	}
}

func TestUpsertPreferencesAllowsAbsentBudget(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	userID := uuid.New()

	p, err := svc.UpsertPreferences(context.Background(), userID, &UpsertPreferencesRequest{
		HousingType: "looking_for_roommate",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if p.HasBudget() {
		t.Fatal("expected budget to be absent")
	}
}
