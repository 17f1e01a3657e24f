package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/validator"
)

// WebSocket constants
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Handler handles chat HTTP requests
type Handler struct {
	service     *Service
	hub         *Hub
	rateLimiter *RateLimiter
	upgrader    websocket.Upgrader
}

// RateLimiter caps message throughput per user
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  30,
		window: time.Minute,
	}
}

// Allow checks if user can send a message. Fails open without Redis.
func (rl *RateLimiter) Allow(userID uuid.UUID) bool {
	if rl.redis == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:chat:%s", userID)
	ctx := context.Background()

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return true
	}

	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	return count <= int64(rl.limit)
}

// NewHandler creates chat handler
func NewHandler(service *Service, hub *Hub, redisClient *redis.Client, allowedOrigins []string) *Handler {
	return &Handler{
		service:     service,
		hub:         hub,
		rateLimiter: NewRateLimiter(redisClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				if len(allowedOrigins) == 0 {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// OpenRoom handles POST /chat/rooms
func (h *Handler) OpenRoom(w http.ResponseWriter, r *http.Request) {
	var req OpenRoomRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	otherID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "Invalid user_id")
		return
	}

	userID := middleware.GetUserID(r.Context())
	room, err := h.service.OpenRoom(r.Context(), userID, otherID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotChatSelf):
			response.BadRequest(w, "Cannot start chat with yourself")
		case errors.Is(err, ErrNotMatched):
			response.Forbidden(w, "Chat requires an active match")
		case errors.Is(err, ErrUserBlocked):
			response.Forbidden(w, "Interaction with this user is not allowed")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to open chat room")
			response.InternalError(w)
		}
		return
	}

	unread, _ := h.service.repo.CountUnreadByRoom(r.Context(), room.ID, userID)
	response.Created(w, RoomResponseFromEntity(room, userID, unread))
}

// ListRooms handles GET /chat/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rooms, err := h.service.ListRooms(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list chat rooms")
		response.InternalError(w)
		return
	}

	items := make([]*RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, RoomResponseFromEntity(room.Room, userID, room.UnreadCount))
	}

	response.OK(w, items)
}

// GetMessages handles GET /chat/rooms/{id}/messages
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	userID := middleware.GetUserID(r.Context())
	messages, err := h.service.GetMessages(r.Context(), userID, roomID, limit, offset)
	if err != nil {
		h.writeRoomError(w, err, roomID)
		return
	}

	response.OK(w, messages)
}

// SendMessage handles POST /chat/rooms/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	var req SendMessageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if !h.rateLimiter.Allow(userID) {
		response.Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many messages, slow down")
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, roomID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotMatched):
			response.Forbidden(w, "Chat requires an active match")
		case errors.Is(err, ErrUserBlocked):
			response.Forbidden(w, "Interaction with this user is not allowed")
		default:
			h.writeRoomError(w, err, roomID)
		}
		return
	}

	response.Created(w, msg)
}

// MarkAsRead handles POST /chat/rooms/{id}/read
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.MarkAsRead(r.Context(), userID, roomID); err != nil {
		h.writeRoomError(w, err, roomID)
		return
	}

	response.NoContent(w)
}

// GetUnreadCount handles GET /chat/unread
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	count, _ := h.service.GetUnreadCount(r.Context(), userID)
	response.OK(w, map[string]int{"unread_count": count})
}

func (h *Handler) writeRoomError(w http.ResponseWriter, err error, roomID uuid.UUID) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		response.NotFound(w, "Chat room not found")
	case errors.Is(err, ErrNotRoomMember):
		response.Forbidden(w, "You are not a member of this chat")
	default:
		log.Error().Err(err).Str("room_id", roomID.String()).Msg("Chat operation failed")
		response.InternalError(w)
	}
}

// WebSocket handles WS /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)

	// Subscribe to all of the user's rooms
	rooms, _ := h.service.ListRooms(r.Context(), userID)
	for _, room := range rooms {
		h.hub.SubscribeToRoom(room.ID, userID)
	}

	go h.wsReader(client)
	go h.wsWriter(client)
}

func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", client.UserID.String()).Msg("WebSocket read error")
			}
			break
		}

		if !h.rateLimiter.Allow(client.UserID) {
			continue
		}

		var event struct {
			Type   string    `json:"type"`
			RoomID uuid.UUID `json:"room_id"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		switch event.Type {
		case "typing":
			h.hub.BroadcastToRoom(event.RoomID, &WSEvent{
				Type:     EventTyping,
				RoomID:   event.RoomID,
				SenderID: client.UserID,
			})
		case "read":
			_ = h.service.MarkAsRead(context.Background(), client.UserID, event.RoomID)
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
