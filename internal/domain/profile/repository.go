package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines profile/preferences data access interface
type Repository interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string, verified bool) error
	TouchLastActive(ctx context.Context, userID uuid.UUID) error

	UpsertPreferences(ctx context.Context, p *Preferences) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*Preferences, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProfile(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (user_id, name, gender, city, district, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Gender, p.City, p.District, p.Bio,
	)
	if err != nil {
		return fmt.Errorf("profile repository create: %w", err)
	}
	return nil
}

func (r *repository) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `
		SELECT user_id, name, gender, city, district, avatar_url, photo_verified, bio,
		       last_active_at, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateProfile(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET name = $2, gender = $3, city = $4, district = $5, bio = $6, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Gender, p.City, p.District, p.Bio,
	)
	if err != nil {
		return fmt.Errorf("profile repository update: %w", err)
	}
	return nil
}

func (r *repository) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string, verified bool) error {
	query := `
		UPDATE profiles
		SET avatar_url = $2, photo_verified = $3, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID, avatarURL, verified)
	return err
}

// TouchLastActive bumps the recency timestamp consumed by feed scoring
func (r *repository) TouchLastActive(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE profiles SET last_active_at = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// UpsertPreferences writes the single active preferences record for the user
func (r *repository) UpsertPreferences(ctx context.Context, p *Preferences) error {
	query := `
		INSERT INTO preferences (user_id, housing_type, gender_preference, budget_min, budget_max, smoking, pets, alcohol)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			housing_type = EXCLUDED.housing_type,
			gender_preference = EXCLUDED.gender_preference,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			smoking = EXCLUDED.smoking,
			pets = EXCLUDED.pets,
			alcohol = EXCLUDED.alcohol,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.HousingType, p.GenderPreference,
		p.BudgetMin, p.BudgetMax, p.Smoking, p.Pets, p.Alcohol,
	)
	if err != nil {
		return fmt.Errorf("preferences repository upsert: %w", err)
	}
	return nil
}

func (r *repository) GetPreferences(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	query := `
		SELECT user_id, housing_type, gender_preference, budget_min, budget_max,
		       smoking, pets, alcohol, created_at, updated_at
		FROM preferences WHERE user_id = $1
	`
	var p Preferences
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
