package listing

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateListingRequest for POST /listings
type CreateListingRequest struct {
	Title         string   `json:"title" validate:"required,min=5,max=120"`
	Description   string   `json:"description" validate:"required,min=20,max=4000"`
	City          string   `json:"city" validate:"required,max=100"`
	District      string   `json:"district" validate:"max=100"`
	Address       string   `json:"address" validate:"max=200"`
	Rent          int64    `json:"rent" validate:"required,gt=0"`
	Deposit       *int64   `json:"deposit" validate:"omitempty,gte=0"`
	RoomsTotal    int      `json:"rooms_total" validate:"required,gte=1,lte=20"`
	Furnished     bool     `json:"furnished"`
	AvailableFrom *string  `json:"available_from" validate:"omitempty,datetime=2006-01-02"`
	PhotoURLs     []string `json:"photo_urls" validate:"max=10,dive,url"`
	Publish       bool     `json:"publish"`
}

// UpdateListingRequest for PUT /listings/{id}
type UpdateListingRequest struct {
	Title         string   `json:"title" validate:"required,min=5,max=120"`
	Description   string   `json:"description" validate:"required,min=20,max=4000"`
	City          string   `json:"city" validate:"required,max=100"`
	District      string   `json:"district" validate:"max=100"`
	Address       string   `json:"address" validate:"max=200"`
	Rent          int64    `json:"rent" validate:"required,gt=0"`
	Deposit       *int64   `json:"deposit" validate:"omitempty,gte=0"`
	RoomsTotal    int      `json:"rooms_total" validate:"required,gte=1,lte=20"`
	Furnished     bool     `json:"furnished"`
	AvailableFrom *string  `json:"available_from" validate:"omitempty,datetime=2006-01-02"`
	PhotoURLs     []string `json:"photo_urls" validate:"max=10,dive,url"`
}

// ChangeStatusRequest for PATCH /listings/{id}/status
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active closed"`
}

// ListingResponse is the API shape of a listing
type ListingResponse struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	City          string     `json:"city"`
	District      *string    `json:"district,omitempty"`
	Address       *string    `json:"address,omitempty"`
	Rent          int64      `json:"rent"`
	Deposit       *int64     `json:"deposit,omitempty"`
	RoomsTotal    int        `json:"rooms_total"`
	Furnished     bool       `json:"furnished"`
	AvailableFrom *time.Time `json:"available_from,omitempty"`
	PhotoURLs     []string   `json:"photo_urls"`
	Status        Status     `json:"status"`
	ViewCount     int        `json:"view_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (req *CreateListingRequest) toEntity(ownerID uuid.UUID) *Listing {
	status := StatusDraft
	if req.Publish {
		status = StatusActive
	}

	l := &Listing{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		District:    nullString(req.District),
		Address:     nullString(req.Address),
		Rent:        req.Rent,
		Deposit:     nullInt64Ptr(req.Deposit),
		RoomsTotal:  req.RoomsTotal,
		Furnished:   req.Furnished,
		PhotoURLs:   req.PhotoURLs,
		Status:      status,
	}
	l.AvailableFrom = nullDate(req.AvailableFrom)
	return l
}

func (req *UpdateListingRequest) apply(l *Listing) {
	l.Title = req.Title
	l.Description = req.Description
	l.City = req.City
	l.District = nullString(req.District)
	l.Address = nullString(req.Address)
	l.Rent = req.Rent
	l.Deposit = nullInt64Ptr(req.Deposit)
	l.RoomsTotal = req.RoomsTotal
	l.Furnished = req.Furnished
	l.AvailableFrom = nullDate(req.AvailableFrom)
	l.PhotoURLs = req.PhotoURLs
}

// FromEntity converts a listing to its API shape
func FromEntity(l *Listing) *ListingResponse {
	resp := &ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		City:        l.City,
		Rent:        l.Rent,
		RoomsTotal:  l.RoomsTotal,
		Furnished:   l.Furnished,
		PhotoURLs:   l.PhotoURLs,
		Status:      l.Status,
		ViewCount:   l.ViewCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.District.Valid {
		resp.District = &l.District.String
	}
	if l.Address.Valid {
		resp.Address = &l.Address.String
	}
	if l.Deposit.Valid {
		resp.Deposit = &l.Deposit.Int64
	}
	if l.AvailableFrom.Valid {
		resp.AvailableFrom = &l.AvailableFrom.Time
	}
	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}
	return resp
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64Ptr(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullDate(s *string) sql.NullTime {
	if s == nil || *s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
