package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/domain/matching"
)

// MatchChecker gates conversations on an active match
type MatchChecker interface {
	HasActiveMatch(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// BlockChecker is the symmetric exclusion consulted before any message
type BlockChecker interface {
	IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Service handles chat business logic
type Service struct {
	repo    Repository
	matches MatchChecker
	blocks  BlockChecker
	hub     *Hub
}

// NewService creates chat service. hub may be nil when no realtime delivery
// is wired (tests).
func NewService(repo Repository, matches MatchChecker, blocks BlockChecker, hub *Hub) *Service {
	return &Service{
		repo:    repo,
		matches: matches,
		blocks:  blocks,
		hub:     hub,
	}
}

// OpenRoom returns the pair's room, creating it on first use. Requires an
// active match and no block in either direction.
func (s *Service) OpenRoom(ctx context.Context, userID, otherID uuid.UUID) (*Room, error) {
	if userID == otherID {
		return nil, ErrCannotChatSelf
	}

	if err := s.checkAccess(ctx, userID, otherID); err != nil {
		return nil, err
	}

	first, second := matching.CanonicalPair(userID, otherID)

	existing, err := s.repo.GetRoomByUsers(ctx, first, second)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.repo.CreateRoom(ctx, &Room{
		ID:           uuid.New(),
		UserFirstID:  first,
		UserSecondID: second,
	})
}

// GetRoom returns room by ID for one of its participants
func (s *Service) GetRoom(ctx context.Context, userID, roomID uuid.UUID) (*Room, error) {
	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, ErrNotRoomMember
	}
	return room, nil
}

// RoomWithUnread is a room with the viewer's unread count
type RoomWithUnread struct {
	*Room
	UnreadCount int
}

// ListRooms returns all rooms for user, most recently active first
func (s *Service) ListRooms(ctx context.Context, userID uuid.UUID) ([]*RoomWithUnread, error) {
	rooms, err := s.repo.ListRoomsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*RoomWithUnread, len(rooms))
	for i, room := range rooms {
		unread, _ := s.repo.CountUnreadByRoom(ctx, room.ID, userID)
		result[i] = &RoomWithUnread{Room: room, UnreadCount: unread}
	}

	return result, nil
}

// SendMessage sends a message in a room. The match must still be active: an
// unmatched pair keeps its history but the conversation is closed.
func (s *Service) SendMessage(ctx context.Context, userID, roomID uuid.UUID, content string) (*Message, error) {
	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, ErrNotRoomMember
	}

	if err := s.checkAccess(ctx, userID, room.OtherParticipant(userID)); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  userID,
		Content:   content,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	_ = s.repo.UpdateRoomLastMessage(ctx, roomID, content)

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID, &WSEvent{
			Type:    EventNewMessage,
			RoomID:  roomID,
			Message: msg,
		})
	}

	return msg, nil
}

// GetMessages returns messages for a room with pagination, newest first
func (s *Service) GetMessages(ctx context.Context, userID, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, ErrNotRoomMember
	}

	return s.repo.ListMessagesByRoom(ctx, roomID, limit, offset)
}

// MarkAsRead marks all messages in room as read
func (s *Service) MarkAsRead(ctx context.Context, userID, roomID uuid.UUID) error {
	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return ErrNotRoomMember
	}

	if err := s.repo.MarkMessagesAsRead(ctx, roomID, userID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID, &WSEvent{
			Type:     EventRead,
			RoomID:   roomID,
			SenderID: userID,
		})
	}

	return nil
}

// GetUnreadCount returns total unread count for user
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

func (s *Service) checkAccess(ctx context.Context, a, b uuid.UUID) error {
	blocked, err := s.blocks.IsBlockedEither(ctx, a, b)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}

	matched, err := s.matches.HasActiveMatch(ctx, a, b)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotMatched
	}

	return nil
}
