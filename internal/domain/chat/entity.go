package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Room is the conversation of one matched pair. Participants are stored in
// canonical order user_first_id < user_second_id with a unique constraint on
// the pair, so a pair never gets two rooms.
type Room struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	UserFirstID        uuid.UUID      `db:"user_first_id" json:"user_first_id"`
	UserSecondID       uuid.UUID      `db:"user_second_id" json:"user_second_id"`
	LastMessageAt      sql.NullTime   `db:"last_message_at" json:"last_message_at,omitempty"`
	LastMessagePreview sql.NullString `db:"last_message_preview" json:"last_message_preview,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// HasParticipant checks if user is in this room
func (r *Room) HasParticipant(userID uuid.UUID) bool {
	return r.UserFirstID == userID || r.UserSecondID == userID
}

// OtherParticipant returns the other user in the room
func (r *Room) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if r.UserFirstID == userID {
		return r.UserSecondID
	}
	return r.UserFirstID
}

// Message represents a chat message
type Message struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	RoomID    uuid.UUID    `db:"room_id" json:"room_id"`
	SenderID  uuid.UUID    `db:"sender_id" json:"sender_id"`
	Content   string       `db:"content" json:"content"`
	IsRead    bool         `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
