package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UpsertProfileRequest for PUT /profiles/me
type UpsertProfileRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Gender   string `json:"gender" validate:"required,gender"`
	City     string `json:"city" validate:"required,min=2,max=100"`
	District string `json:"district" validate:"max=100"`
	Bio      string `json:"bio" validate:"max=1000"`
}

// UpsertPreferencesRequest for PUT /profiles/me/preferences
type UpsertPreferencesRequest struct {
	HousingType      string `json:"housing_type" validate:"required,housing_type"`
	GenderPreference string `json:"gender_preference" validate:"gender_preference"`
	BudgetMin        *int64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax        *int64 `json:"budget_max" validate:"omitempty,gte=0"`
	Smoking          string `json:"smoking" validate:"smoking"`
	Pets             string `json:"pets" validate:"pets"`
	Alcohol          string `json:"alcohol" validate:"alcohol"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	City          string    `json:"city"`
	District      string    `json:"district,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	PhotoVerified bool      `json:"photo_verified"`
	Bio           string    `json:"bio,omitempty"`
	LastActiveAt  *string   `json:"last_active_at,omitempty"`
}

// PreferencesResponse represents preferences in API responses
type PreferencesResponse struct {
	HousingType      string `json:"housing_type"`
	GenderPreference string `json:"gender_preference,omitempty"`
	BudgetMin        *int64 `json:"budget_min,omitempty"`
	BudgetMax        *int64 `json:"budget_max,omitempty"`
	Smoking          string `json:"smoking,omitempty"`
	Pets             string `json:"pets,omitempty"`
	Alcohol          string `json:"alcohol,omitempty"`
}

// ProfileFromEntity converts entity to response
func ProfileFromEntity(p *Profile) *ProfileResponse {
	resp := &ProfileResponse{
		UserID:        p.UserID,
		Name:          p.Name,
		Gender:        string(p.Gender),
		City:          p.City,
		District:      p.District.String,
		AvatarURL:     p.AvatarURL.String,
		PhotoVerified: p.PhotoVerified,
		Bio:           p.Bio.String,
	}
	if p.LastActiveAt.Valid {
		s := p.LastActiveAt.Time.Format(time.RFC3339)
		resp.LastActiveAt = &s
	}
	return resp
}

// PreferencesFromEntity converts entity to response
func PreferencesFromEntity(p *Preferences) *PreferencesResponse {
	resp := &PreferencesResponse{
		HousingType:      string(p.HousingType),
		GenderPreference: string(p.GenderPreference),
		Smoking:          string(p.Smoking),
		Pets:             string(p.Pets),
		Alcohol:          string(p.Alcohol),
	}
	if p.BudgetMin.Valid {
		v := p.BudgetMin.Int64
		resp.BudgetMin = &v
	}
	if p.BudgetMax.Valid {
		v := p.BudgetMax.Int64
		resp.BudgetMax = &v
	}
	return resp
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
