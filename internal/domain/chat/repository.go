package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines chat data access interface
type Repository interface {
	CreateRoom(ctx context.Context, room *Room) (*Room, error)
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	GetRoomByUsers(ctx context.Context, first, second uuid.UUID) (*Room, error)
	ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*Room, error)
	UpdateRoomLastMessage(ctx context.Context, roomID uuid.UUID, preview string) error

	CreateMessage(ctx context.Context, msg *Message) error
	ListMessagesByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkMessagesAsRead(ctx context.Context, roomID, userID uuid.UUID) error
	CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error)
	CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new chat repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateRoom inserts the canonical pair's room, ignoring conflicts. When two
// requests race, both end up with the same row: the loser falls through to a
// lookup of the winner's insert.
func (r *repository) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	query := `
		INSERT INTO chat_rooms (id, user_first_id, user_second_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_first_id, user_second_id) DO NOTHING
		RETURNING id, user_first_id, user_second_id, last_message_at, last_message_preview, created_at
	`
	var created Room
	err := r.db.QueryRowxContext(ctx, query, room.ID, room.UserFirstID, room.UserSecondID).StructScan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.GetRoomByUsers(ctx, room.UserFirstID, room.UserSecondID)
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT * FROM chat_rooms WHERE id = $1`
	var room Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetRoomByUsers(ctx context.Context, first, second uuid.UUID) (*Room, error) {
	query := `SELECT * FROM chat_rooms WHERE user_first_id = $1 AND user_second_id = $2`
	var room Room
	if err := r.db.GetContext(ctx, &room, query, first, second); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*Room, error) {
	query := `
		SELECT * FROM chat_rooms
		WHERE user_first_id = $1 OR user_second_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`
	rooms := []*Room{}
	err := r.db.SelectContext(ctx, &rooms, query, userID)
	return rooms, err
}

func (r *repository) UpdateRoomLastMessage(ctx context.Context, roomID uuid.UUID, preview string) error {
	if len(preview) > 97 {
		preview = preview[:97] + "..."
	}

	query := `
		UPDATE chat_rooms
		SET last_message_at = NOW(), last_message_preview = $2
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, roomID, preview)
	return err
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (id, room_id, sender_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.RoomID, msg.SenderID, msg.Content, msg.IsRead, msg.CreatedAt,
	)
	return err
}

func (r *repository) ListMessagesByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	query := `
		SELECT * FROM messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages, query, roomID, limit, offset)
	return messages, err
}

func (r *repository) MarkMessagesAsRead(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE messages
		SET is_read = true, read_at = NOW()
		WHERE room_id = $1 AND sender_id != $2 AND NOT is_read
	`
	_, err := r.db.ExecContext(ctx, query, roomID, userID)
	return err
}

func (r *repository) CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages
		WHERE room_id = $1 AND sender_id != $2 AND NOT is_read
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, roomID, userID)
	return count, err
}

func (r *repository) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages m
		JOIN chat_rooms r ON m.room_id = r.id
		WHERE (r.user_first_id = $1 OR r.user_second_id = $1)
		  AND m.sender_id != $1 AND NOT m.is_read
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
