package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Gender represents profile gender (matches gender enum)
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// GenderPreference restricts who appears in a user's feed
type GenderPreference string

const (
	PrefFemaleOnly GenderPreference = "female_only"
	PrefMaleOnly   GenderPreference = "male_only"
	PrefMixed      GenderPreference = "mixed"
)

// HousingType describes what the user is searching for
type HousingType string

const (
	HousingLookingForRoommate HousingType = "looking_for_roommate"
	HousingLookingForRoom     HousingType = "looking_for_room"
	HousingHasRoom            HousingType = "has_room"
)

// SmokingHabit is an ordered scale: no < social < regular
type SmokingHabit string

const (
	SmokingNo      SmokingHabit = "no"
	SmokingSocial  SmokingHabit = "social"
	SmokingRegular SmokingHabit = "regular"
)

// PetPreference is the user's stated pet-compatibility
type PetPreference string

const (
	PetsNo           PetPreference = "no"
	PetsDoesntMatter PetPreference = "doesnt_matter"
	PetsNotBothered  PetPreference = "not_bothered"
	PetsLovesPets    PetPreference = "loves_pets"
)

// AlcoholUse is an ordered scale: never < occasionally < socially < regularly
type AlcoholUse string

const (
	AlcoholNever        AlcoholUse = "never"
	AlcoholOccasionally AlcoholUse = "occasionally"
	AlcoholSocially     AlcoholUse = "socially"
	AlcoholRegularly    AlcoholUse = "regularly"
)

// Profile holds a user's display attributes. 1:1 with users; read-only to the
// matching core.
type Profile struct {
	UserID        uuid.UUID      `db:"user_id"`
	Name          string         `db:"name"`
	Gender        Gender         `db:"gender"`
	City          string         `db:"city"`
	District      sql.NullString `db:"district"`
	AvatarURL     sql.NullString `db:"avatar_url"`
	PhotoVerified bool           `db:"photo_verified"`
	Bio           sql.NullString `db:"bio"`
	LastActiveAt  sql.NullTime   `db:"last_active_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// HasPhoto returns true if the profile has an avatar set
func (p *Profile) HasPhoto() bool {
	return p.AvatarURL.Valid && p.AvatarURL.String != ""
}

// Preferences holds a user's roommate search policy. One active record per
// user; 1:1 with users.
type Preferences struct {
	UserID           uuid.UUID        `db:"user_id"`
	HousingType      HousingType      `db:"housing_type"`
	GenderPreference GenderPreference `db:"gender_preference"`
	BudgetMin        sql.NullInt64    `db:"budget_min"`
	BudgetMax        sql.NullInt64    `db:"budget_max"`
	Smoking          SmokingHabit     `db:"smoking"`
	Pets             PetPreference    `db:"pets"`
	Alcohol          AlcoholUse       `db:"alcohol"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// HasBudget returns true when both budget bounds are set
func (p *Preferences) HasBudget() bool {
	return p.BudgetMin.Valid && p.BudgetMax.Valid
}
