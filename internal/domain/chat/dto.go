package chat

import (
	"time"

	"github.com/google/uuid"
)

// OpenRoomRequest for POST /chat/rooms
type OpenRoomRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// SendMessageRequest for POST /chat/rooms/{id}/messages
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// RoomResponse is the viewer-relative API shape of a room
type RoomResponse struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	LastMessagePreview *string    `json:"last_message_preview,omitempty"`
	UnreadCount        int        `json:"unread_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

// RoomResponseFromEntity converts a room to its API shape for the viewer
func RoomResponseFromEntity(room *Room, viewerID uuid.UUID, unread int) *RoomResponse {
	resp := &RoomResponse{
		ID:          room.ID,
		UserID:      room.OtherParticipant(viewerID),
		UnreadCount: unread,
		CreatedAt:   room.CreatedAt,
	}
	if room.LastMessageAt.Valid {
		resp.LastMessageAt = &room.LastMessageAt.Time
	}
	if room.LastMessagePreview.Valid {
		resp.LastMessagePreview = &room.LastMessagePreview.String
	}
	return resp
}
