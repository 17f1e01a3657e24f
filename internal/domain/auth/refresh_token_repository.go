package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RefreshTokenRecord is one issued refresh token, stored by hash. A non-null
// used_at or revoked_at makes the token unusable; rotation marks the old row
// used instead of deleting it so reuse attempts stay visible.
type RefreshTokenRecord struct {
	ID        uuid.UUID    `db:"id"`
	UserID    uuid.UUID    `db:"user_id"`
	TokenHash string       `db:"token_hash"`
	JTI       string       `db:"jti"`
	ExpiresAt time.Time    `db:"expires_at"`
	UsedAt    sql.NullTime `db:"used_at"`
	RevokedAt sql.NullTime `db:"revoked_at"`
	CreatedAt time.Time    `db:"created_at"`
}

// Usable reports whether the token can still redeem a refresh
func (r *RefreshTokenRecord) Usable(now time.Time) bool {
	return !r.UsedAt.Valid && !r.RevokedAt.Valid && now.Before(r.ExpiresAt)
}

// RefreshTokenRepository persists refresh token records
type RefreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates refresh token repository
func NewRefreshTokenRepository(db *sqlx.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, rec *RefreshTokenRecord) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, jti, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.TokenHash, rec.JTI, rec.ExpiresAt)
	return err
}

func (r *RefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	query := `
		SELECT id, user_id, token_hash, jti, expires_at, used_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	var rec RefreshTokenRecord
	if err := r.db.GetContext(ctx, &rec, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// MarkUsed consumes the token for rotation. Returns false if the row was
// already used or revoked, which signals concurrent or replayed redemption.
func (r *RefreshTokenRepository) MarkUsed(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		UPDATE refresh_tokens SET used_at = NOW()
		WHERE token_hash = $1 AND used_at IS NULL AND revoked_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *RefreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, tokenHash)
	return err
}

func (r *RefreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
