package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/domain/matching"
)

type fakeChatRepo struct {
	rooms    map[uuid.UUID]*Room
	messages []*Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rooms: make(map[uuid.UUID]*Room)}
}

func (r *fakeChatRepo) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	for _, existing := range r.rooms {
		if existing.UserFirstID == room.UserFirstID && existing.UserSecondID == room.UserSecondID {
			return existing, nil
		}
	}
	r.rooms[room.ID] = room
	return room, nil
}

func (r *fakeChatRepo) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	return r.rooms[id], nil
}

func (r *fakeChatRepo) GetRoomByUsers(ctx context.Context, first, second uuid.UUID) (*Room, error) {
	for _, room := range r.rooms {
		if room.UserFirstID == first && room.UserSecondID == second {
			return room, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*Room, error) {
	var out []*Room
	for _, room := range r.rooms {
		if room.HasParticipant(userID) {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) UpdateRoomLastMessage(ctx context.Context, roomID uuid.UUID, preview string) error {
	return nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, msg *Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeChatRepo) ListMessagesByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	var out []*Message
	for _, m := range r.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) MarkMessagesAsRead(ctx context.Context, roomID, userID uuid.UUID) error {
	for _, m := range r.messages {
		if m.RoomID == roomID && m.SenderID != userID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *fakeChatRepo) CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	count := 0
	for _, m := range r.messages {
		if m.RoomID == roomID && m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeChatRepo) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, m := range r.messages {
		room := r.rooms[m.RoomID]
		if room != nil && room.HasParticipant(userID) && m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

type chatPair struct{ a, b uuid.UUID }

type fakeMatches struct {
	active map[chatPair]bool
}

func (f *fakeMatches) HasActiveMatch(ctx context.Context, a, b uuid.UUID) (bool, error) {
	first, second := matching.CanonicalPair(a, b)
	return f.active[chatPair{first, second}], nil
}

func (f *fakeMatches) set(a, b uuid.UUID, v bool) {
	first, second := matching.CanonicalPair(a, b)
	f.active[chatPair{first, second}] = v
}

type fakeBlocks struct {
	blocked map[chatPair]bool
}

func (f *fakeBlocks) IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.blocked[chatPair{a, b}] || f.blocked[chatPair{b, a}], nil
}

func newChatService() (*Service, *fakeChatRepo, *fakeMatches, *fakeBlocks) {
	repo := newFakeChatRepo()
	matches := &fakeMatches{active: make(map[chatPair]bool)}
	blocks := &fakeBlocks{blocked: make(map[chatPair]bool)}
	return NewService(repo, matches, blocks, nil), repo, matches, blocks
}

func TestOpenRoomRequiresMatch(t *testing.T) {
	svc, _, matches, _ := newChatService()
	a, b := uuid.New(), uuid.New()

	if _, err := svc.OpenRoom(context.Background(), a, b); !errors.Is(err, ErrNotMatched) {
		t.Fatalf("expected ErrNotMatched, got %v", err)
	}

	matches.set(a, b, true)
	room, err := svc.OpenRoom(context.Background(), a, b)
	if err != nil {
		t.Fatalf("open after match failed: %v", err)
	}
	if !room.HasParticipant(a) || !room.HasParticipant(b) {
		t.Fatal("room must contain both participants")
	}
}

func TestOpenRoomIsIdempotentAcrossDirections(t *testing.T) {
	svc, repo, matches, _ := newChatService()
	a, b := uuid.New(), uuid.New()
	matches.set(a, b, true)

	first, err := svc.OpenRoom(context.Background(), a, b)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	second, err := svc.OpenRoom(context.Background(), b, a)
	if err != nil {
		t.Fatalf("reverse open failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatal("both directions must resolve to the same room")
	}
	if len(repo.rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(repo.rooms))
	}
}

func TestOpenRoomSelf(t *testing.T) {
	svc, _, _, _ := newChatService()
	a := uuid.New()

	if _, err := svc.OpenRoom(context.Background(), a, a); !errors.Is(err, ErrCannotChatSelf) {
		t.Fatalf("expected ErrCannotChatSelf, got %v", err)
	}
}

func TestOpenRoomBlockedPair(t *testing.T) {
	svc, _, matches, blocks := newChatService()
	a, b := uuid.New(), uuid.New()
	matches.set(a, b, true)
	blocks.blocked[chatPair{b, a}] = true

	if _, err := svc.OpenRoom(context.Background(), a, b); !errors.Is(err, ErrUserBlocked) {
		t.Fatalf("expected ErrUserBlocked, got %v", err)
	}
}

func TestSendMessageClosedAfterUnmatch(t *testing.T) {
	svc, _, matches, _ := newChatService()
	a, b := uuid.New(), uuid.New()
	matches.set(a, b, true)

	room, err := svc.OpenRoom(context.Background(), a, b)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := svc.SendMessage(context.Background(), a, room.ID, "hi"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	matches.set(a, b, false)
	if _, err := svc.SendMessage(context.Background(), a, room.ID, "still there?"); !errors.Is(err, ErrNotMatched) {
		t.Fatalf("expected ErrNotMatched after unmatch, got %v", err)
	}

	// history stays readable
	messages, err := svc.GetMessages(context.Background(), a, room.ID, 50, 0)
	if err != nil {
		t.Fatalf("history read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message in history, got %d", len(messages))
	}
}

func TestSendMessageNonMember(t *testing.T) {
	svc, _, matches, _ := newChatService()
	a, b := uuid.New(), uuid.New()
	matches.set(a, b, true)

	room, err := svc.OpenRoom(context.Background(), a, b)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := svc.SendMessage(context.Background(), uuid.New(), room.ID, "hi"); !errors.Is(err, ErrNotRoomMember) {
		t.Fatalf("expected ErrNotRoomMember, got %v", err)
	}
}

func TestUnreadFlow(t *testing.T) {
	svc, _, matches, _ := newChatService()
	a, b := uuid.New(), uuid.New()
	matches.set(a, b, true)

	room, err := svc.OpenRoom(context.Background(), a, b)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.SendMessage(context.Background(), a, room.ID, "hello"); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	count, err := svc.GetUnreadCount(context.Background(), b)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}

	// sender's own messages are not unread for them
	count, _ = svc.GetUnreadCount(context.Background(), a)
	if count != 0 {
		t.Fatalf("expected 0 unread for sender, got %d", count)
	}

	if err := svc.MarkAsRead(context.Background(), b, room.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	count, _ = svc.GetUnreadCount(context.Background(), b)
	if count != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d", count)
	}
}
