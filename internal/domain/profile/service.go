package profile

import (
	"context"

	"github.com/google/uuid"
)

// Service handles profile business logic
type Service struct {
	repo Repository
}

// NewService creates new profile service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns a user's profile
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// UpsertProfile creates the profile on first write, updates it afterwards
func (s *Service) UpsertProfile(ctx context.Context, userID uuid.UUID, req *UpsertProfileRequest) (*Profile, error) {
	existing, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		UserID:   userID,
		Name:     req.Name,
		Gender:   Gender(req.Gender),
		City:     req.City,
		District: nullString(req.District),
		Bio:      nullString(req.Bio),
	}

	if existing == nil {
		if err := s.repo.CreateProfile(ctx, p); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.UpdateProfile(ctx, p); err != nil {
			return nil, err
		}
		p.AvatarURL = existing.AvatarURL
		p.PhotoVerified = existing.PhotoVerified
		p.LastActiveAt = existing.LastActiveAt
	}

	return p, nil
}

// GetPreferences returns a user's search preferences
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	p, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPreferencesNotFound
	}
	return p, nil
}

// UpsertPreferences writes the user's single active preferences record.
// Budget bounds must satisfy min <= max, or both be absent.
func (s *Service) UpsertPreferences(ctx context.Context, userID uuid.UUID, req *UpsertPreferencesRequest) (*Preferences, error) {
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, ErrInvalidBudgetRange
	}

	p := &Preferences{
		UserID:           userID,
		HousingType:      HousingType(req.HousingType),
		GenderPreference: GenderPreference(req.GenderPreference),
		BudgetMin:        nullInt64(req.BudgetMin),
		BudgetMax:        nullInt64(req.BudgetMax),
		Smoking:          SmokingHabit(req.Smoking),
		Pets:             PetPreference(req.Pets),
		Alcohol:          AlcoholUse(req.Alcohol),
	}

	if err := s.repo.UpsertPreferences(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// TouchLastActive bumps the profile recency timestamp
func (s *Service) TouchLastActive(ctx context.Context, userID uuid.UUID) error {
	return s.repo.TouchLastActive(ctx, userID)
}
