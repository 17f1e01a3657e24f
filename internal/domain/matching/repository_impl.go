package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/roomly/roomly-api/internal/pkg/pagination"
)

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new matching repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CandidatePool joins users, profiles and preferences and applies the hard
// filter predicates. The pool is unranked; ordering is the scorer's job.
func (r *repository) CandidatePool(ctx context.Context, fc *FeedContext) ([]Candidate, error) {
	b := &condBuilder{}
	for _, p := range poolPredicates(fc) {
		p.apply(b)
	}

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT u.id AS user_id,
		       p.name, p.gender, p.city, p.district, p.avatar_url, p.photo_verified, p.last_active_at,
		       pref.budget_min, pref.budget_max, pref.smoking, pref.pets, pref.alcohol
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		JOIN preferences pref ON pref.user_id = u.id
		WHERE %s
	`, b.clause()))

	var pool []Candidate
	if err := r.db.SelectContext(ctx, &pool, query, b.args...); err != nil {
		return nil, fmt.Errorf("matching repository candidate pool: %w", err)
	}
	return pool, nil
}

// UpsertSwipe performs a single atomic write keyed on (swiper_id, swiped_id).
// Concurrent repeated swipes converge to one row with the last-applied action.
func (r *repository) UpsertSwipe(ctx context.Context, swipe *Swipe) error {
	query := `
		INSERT INTO swipes (swiper_id, swiped_id, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (swiper_id, swiped_id)
		DO UPDATE SET action = EXCLUDED.action, updated_at = NOW()
		RETURNING created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, swipe.SwiperID, swipe.SwipedID, swipe.Action)
	if err := row.Scan(&swipe.CreatedAt, &swipe.UpdatedAt); err != nil {
		return fmt.Errorf("matching repository upsert swipe: %w", err)
	}
	return nil
}

func (r *repository) HasLikeFrom(ctx context.Context, swiperID, swipedID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM swipes
			WHERE swiper_id = $1 AND swiped_id = $2 AND action = 'like'
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, swiperID, swipedID)
	return exists, err
}

// CreateMatch sorts the pair into canonical order and relies on the unique
// (user_first_id, user_second_id) constraint: insert-ignore-on-conflict makes
// the first caller win and every other caller observe nil, with no
// application-level locking.
func (r *repository) CreateMatch(ctx context.Context, a, b uuid.UUID) (*Match, error) {
	first, second := CanonicalPair(a, b)

	query := `
		INSERT INTO matches (id, user_first_id, user_second_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_first_id, user_second_id) DO NOTHING
		RETURNING id, user_first_id, user_second_id, matched_at, unmatched_at
	`
	var match Match
	err := r.db.GetContext(ctx, &match, query, uuid.New(), first, second)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict: the pair already has its one match row
			return nil, nil
		}
		return nil, fmt.Errorf("matching repository create match: %w", err)
	}
	return &match, nil
}

// Unmatch is a conditional update gated on current row state. Participation
// and active state are part of the WHERE clause, so an unauthorized requester
// and an already-unmatched pair are indistinguishable: both affect zero rows.
func (r *repository) Unmatch(ctx context.Context, requesterID uuid.UUID, matchID uuid.UUID) error {
	query := `
		UPDATE matches
		SET unmatched_at = NOW()
		WHERE id = $1
		  AND unmatched_at IS NULL
		  AND (user_first_id = $2 OR user_second_id = $2)
	`
	result, err := r.db.ExecContext(ctx, query, matchID, requesterID)
	if err != nil {
		return fmt.Errorf("matching repository unmatch: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("matching repository unmatch: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *repository) HasActiveMatch(ctx context.Context, a, b uuid.UUID) (bool, error) {
	first, second := CanonicalPair(a, b)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM matches
			WHERE user_first_id = $1 AND user_second_id = $2 AND unmatched_at IS NULL
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, first, second)
	return exists, err
}

func (r *repository) ListActiveMatches(ctx context.Context, userID uuid.UUID) ([]*Match, error) {
	query := `
		SELECT id, user_first_id, user_second_id, matched_at, unmatched_at
		FROM matches
		WHERE (user_first_id = $1 OR user_second_id = $1) AND unmatched_at IS NULL
		ORDER BY matched_at DESC
	`
	var matches []*Match
	err := r.db.SelectContext(ctx, &matches, query, userID)
	return matches, err
}

// GetLikers lists active likes directed at userID, excluding anyone userID
// has explicitly passed on, ordered by (updated_at DESC, swiper_id DESC) with
// cursor pagination.
func (r *repository) GetLikers(ctx context.Context, userID uuid.UUID, token *string, limit int) ([]Liker, *string, error) {
	cursor, err := decodeToken(token)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT s.swiper_id, s.updated_at
		FROM swipes s
		WHERE s.swiped_id = $1 AND s.action = 'like'
		  AND NOT EXISTS (
			SELECT 1 FROM swipes s2
			WHERE s2.swiper_id = $1 AND s2.swiped_id = s.swiper_id AND s2.action = 'pass'
		  )
	`
	args := []interface{}{userID}

	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query += ` AND (s.updated_at < $2 OR (s.updated_at = $2 AND s.swiper_id < $3))`
		args = append(args, ts, cursor.UserID)
	}

	query += fmt.Sprintf(` ORDER BY s.updated_at DESC, s.swiper_id DESC LIMIT %d`, limit+1)

	var likers []Liker
	if err := r.db.SelectContext(ctx, &likers, query, args...); err != nil {
		return nil, nil, fmt.Errorf("matching repository get likers: %w", err)
	}

	var nextToken *string
	if len(likers) > limit {
		last := likers[limit-1]
		t, _ := pagination.Encode(pagination.Cursor{
			UserID:      last.SwiperID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &t
		likers = likers[:limit]
	}

	return likers, nextToken, nil
}

func (r *repository) CountLikers(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM swipes s
		WHERE s.swiped_id = $1 AND s.action = 'like'
		  AND NOT EXISTS (
			SELECT 1 FROM swipes s2
			WHERE s2.swiper_id = $1 AND s2.swiped_id = s.swiper_id AND s2.action = 'pass'
		  )
	`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("matching repository count likers: %w", err)
	}
	return count, nil
}
