package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Filter represents search filters
type Filter struct {
	City     *string
	District *string
	RentMin  *int64
	RentMax  *int64
	Status   *Status
}

// SortBy represents sort options
type SortBy string

const (
	SortByNewest   SortBy = "newest"
	SortByRentAsc  SortBy = "rent_asc"
	SortByRentDesc SortBy = "rent_desc"
	SortByPopular  SortBy = "popular"
)

// Pagination for listing pages
type Pagination struct {
	Page  int
	Limit int
}

// Repository defines listing data access
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	List(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Listing, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, pagination *Pagination) ([]*Listing, int, error)
	CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

const listingSelectColumns = `
	id, owner_id, title, description, city, district, address,
	rent, deposit, rooms_total, furnished, available_from, photo_urls,
	status, view_count, created_at, updated_at
`

// NewRepository creates new listing repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (
			id, owner_id, title, description, city, district, address,
			rent, deposit, rooms_total, furnished, available_from, photo_urls,
			status, view_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, 0, NOW(), NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.OwnerID, l.Title, l.Description, l.City, l.District, l.Address,
		l.Rent, l.Deposit, l.RoomsTotal, l.Furnished, l.AvailableFrom, l.PhotoURLs,
		l.Status,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT ` + listingSelectColumns + ` FROM listings WHERE id = $1`

	var l Listing
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings SET
			title = $2, description = $3, city = $4, district = $5, address = $6,
			rent = $7, deposit = $8, rooms_total = $9, furnished = $10,
			available_from = $11, photo_urls = $12,
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.Title, l.Description, l.City, l.District, l.Address,
		l.Rent, l.Deposit, l.RoomsTotal, l.Furnished,
		l.AvailableFrom, l.PhotoURLs,
	)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *repository) List(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Listing, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	} else {
		conditions = append(conditions, "status = 'active'")
	}

	if filter.City != nil && *filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", argIndex))
		args = append(args, *filter.City)
		argIndex++
	}

	if filter.District != nil && *filter.District != "" {
		conditions = append(conditions, fmt.Sprintf("district ILIKE $%d", argIndex))
		args = append(args, *filter.District)
		argIndex++
	}

	if filter.RentMin != nil {
		conditions = append(conditions, fmt.Sprintf("rent >= $%d", argIndex))
		args = append(args, *filter.RentMin)
		argIndex++
	}

	if filter.RentMax != nil {
		conditions = append(conditions, fmt.Sprintf("rent <= $%d", argIndex))
		args = append(args, *filter.RentMax)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM listings " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	switch sortBy {
	case SortByRentAsc:
		orderBy = "rent ASC, created_at DESC"
	case SortByRentDesc:
		orderBy = "rent DESC, created_at DESC"
	case SortByPopular:
		orderBy = "view_count DESC, created_at DESC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM listings %s ORDER BY %s LIMIT $%d OFFSET $%d",
		listingSelectColumns, where, orderBy, argIndex, argIndex+1,
	)
	args = append(args, pagination.Limit, (pagination.Page-1)*pagination.Limit)

	listings := []*Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, pagination *Pagination) ([]*Listing, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM listings WHERE owner_id = $1`, ownerID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + listingSelectColumns + ` FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	listings := []*Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, ownerID, pagination.Limit, (pagination.Page-1)*pagination.Limit); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *repository) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM listings WHERE owner_id = $1 AND status = 'active'`, ownerID)
	return count, err
}

// IncrementViewCount bumps the counter in place so concurrent views never
// lose an increment
func (r *repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE listings SET view_count = view_count + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
