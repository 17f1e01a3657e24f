package photo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines photo data access interface
type Repository interface {
	Create(ctx context.Context, photo *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Photo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetAvatar(ctx context.Context, userID, photoID uuid.UUID) error
	UpdateSortOrder(ctx context.Context, photoID uuid.UUID, order int) error
	MarkProcessed(ctx context.Context, photoID uuid.UUID, thumbKey, thumbnailURL string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new photo repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, photo *Photo) error {
	query := `
		INSERT INTO photos (id, user_id, key, thumb_key, url, thumbnail_url, original_name,
		                    content_type, size_bytes, is_avatar, verified, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		photo.ID,
		photo.UserID,
		photo.Key,
		photo.ThumbKey,
		photo.URL,
		photo.ThumbnailURL,
		photo.OriginalName,
		photo.ContentType,
		photo.SizeBytes,
		photo.IsAvatar,
		photo.Verified,
		photo.SortOrder,
		photo.CreatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	query := `SELECT * FROM photos WHERE id = $1`
	var photo Photo
	err := r.db.GetContext(ctx, &photo, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Photo, error) {
	query := `SELECT * FROM photos WHERE user_id = $1 ORDER BY sort_order ASC, created_at ASC`
	photos := []*Photo{}
	if err := r.db.SelectContext(ctx, &photos, query, userID); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *repository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM photos WHERE user_id = $1`, userID)
	return count, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	return err
}

// SetAvatar flips the avatar flag to the given photo in a single statement,
// so there is never a moment with two avatars.
func (r *repository) SetAvatar(ctx context.Context, userID, photoID uuid.UUID) error {
	query := `UPDATE photos SET is_avatar = (id = $2) WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, photoID)
	return err
}

func (r *repository) UpdateSortOrder(ctx context.Context, photoID uuid.UUID, order int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE photos SET sort_order = $2 WHERE id = $1`, photoID, order)
	return err
}

// MarkProcessed records the rendered thumbnail and flags the photo as a
// verified (decodable) image. Called by the image worker.
func (r *repository) MarkProcessed(ctx context.Context, photoID uuid.UUID, thumbKey, thumbnailURL string) error {
	query := `UPDATE photos SET thumb_key = $2, thumbnail_url = $3, verified = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, photoID, thumbKey, thumbnailURL)
	return err
}
