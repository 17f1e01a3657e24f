package chat

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventNewMessage EventType = "new_message"
	EventTyping     EventType = "typing"
	EventRead       EventType = "read"
)

// Redis key prefixes
const (
	roomChannelPrefix = "chat:room:"
	presenceKey       = "chat:presence:online"
	presenceChannel   = "chat:presence"
)

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// WSEvent represents a WebSocket event
type WSEvent struct {
	Type     EventType `json:"type"`
	RoomID   uuid.UUID `json:"room_id,omitempty"`
	SenderID uuid.UUID `json:"sender_id,omitempty"`
	Message  *Message  `json:"message,omitempty"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub is the connection registry: it tracks which users are connected to this
// instance and which rooms they listen to, and relays room events across
// instances through Redis Pub/Sub. Without Redis it degrades to single-node
// delivery.
type Hub struct {
	// Local connections (this server instance only)
	connections map[uuid.UUID]map[*Connection]bool

	// Local room subscriptions: roomID -> set of userIDs on this server
	localRooms map[uuid.UUID]map[uuid.UUID]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new WebSocket hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		localRooms:  make(map[uuid.UUID]map[uuid.UUID]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, roomChannelPrefix+"*", presenceChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)

			h.publishPresence(conn.UserID, true)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User connected to WebSocket")

		case conn := <-h.unregister:
			shouldPublishOffline := false
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
					shouldPublishOffline = true
				}

				for roomID, users := range h.localRooms {
					delete(users, conn.UserID)
					if len(users) == 0 {
						delete(h.localRooms, roomID)
					}
				}
			}
			h.mu.Unlock()

			if shouldPublishOffline {
				h.publishPresence(conn.UserID, false)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User disconnected from WebSocket")
		}
	}
}

// runRedisSubscriber listens for messages from Redis Pub/Sub
func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			if strings.HasPrefix(msg.Channel, roomChannelPrefix) {
				roomID, err := uuid.Parse(msg.Channel[len(roomChannelPrefix):])
				if err != nil {
					continue
				}

				var event WSEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}

				h.broadcastLocal(roomID, &event)
			}

			if msg.Channel == presenceChannel {
				log.Debug().Str("presence", msg.Payload).Msg("Presence update received")
			}
		}
	}
}

// broadcastLocal sends event to clients connected to THIS server
func (h *Hub) broadcastLocal(roomID uuid.UUID, event *WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.localRooms[roomID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	for userID := range users {
		if conns, ok := h.connections[userID]; ok {
			for conn := range conns {
				select {
				case conn.Send <- data:
					wsEventsSentTotal.Add(1)
				default:
					// Buffer full, skip this message
					wsEventsDroppedTotal.Add(1)
					log.Warn().Str("user_id", userID.String()).Msg("WebSocket send buffer full")
				}
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SubscribeToRoom adds user to room delivery on this instance
func (h *Hub) SubscribeToRoom(roomID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localRooms[roomID] == nil {
		h.localRooms[roomID] = make(map[uuid.UUID]bool)
	}
	h.localRooms[roomID][userID] = true
}

// UnsubscribeFromRoom removes user from room delivery on this instance
func (h *Hub) UnsubscribeFromRoom(roomID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localRooms[roomID] != nil {
		delete(h.localRooms[roomID], userID)
		if len(h.localRooms[roomID]) == 0 {
			delete(h.localRooms, roomID)
		}
	}
}

// BroadcastToRoom sends event to ALL users in room across ALL instances
func (h *Hub) BroadcastToRoom(roomID uuid.UUID, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}

	if h.redis != nil {
		channel := roomChannelPrefix + roomID.String()
		if err := h.redis.Publish(h.ctx, channel, data).Err(); err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Redis publish failed")
			h.broadcastLocal(roomID, event)
		}
	} else {
		h.broadcastLocal(roomID, event)
	}
}

// publishPresence publishes user online/offline status to Redis
func (h *Hub) publishPresence(userID uuid.UUID, online bool) {
	if h.redis == nil {
		return
	}

	ctx := context.Background()

	if online {
		h.redis.SAdd(ctx, presenceKey, userID.String())
		h.redis.Expire(ctx, presenceKey, 5*time.Minute)
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:online", userID))
	} else {
		h.redis.SRem(ctx, presenceKey, userID.String())
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:offline", userID))
	}
}

// IsOnline checks if user is online (across all instances)
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	if h.redis == nil {
		h.mu.RLock()
		conns, ok := h.connections[userID]
		h.mu.RUnlock()
		return ok && len(conns) > 0
	}

	return h.redis.SIsMember(context.Background(), presenceKey, userID.String()).Val()
}

// GetConnectionCount returns number of local connections
func (h *Hub) GetConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// IsUserSubscribedToRoom reports whether user is subscribed locally to room
func (h *Hub) IsUserSubscribedToRoom(roomID, userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := h.localRooms[roomID]
	if users == nil {
		return false
	}
	return users[userID]
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
