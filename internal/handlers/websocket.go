package handlers

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventChatMessage    = "chat_message"
	EventSessionCreated = "session_created"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	UserID    string      `json:"userId"`
	Data      interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection with its user ID
type connection struct {
	conn   *websocket.Conn
	userID uuid.UUID
}

// Hub manages WebSocket connections per chat session.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool // sessionID -> set of connections
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*connection]bool),
		log:   log,
	}
}

// register adds a connection to a session room
func (h *Hub) register(sessionID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[*connection]bool)
	}
	h.rooms[sessionID][conn] = true
	h.log.Debug().Str("user", conn.userID.String()).Str("session", sessionID.String()).Msg("ws register")
}

// unregister removes a connection from a session room
func (h *Hub) unregister(sessionID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[sessionID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

// Broadcast sends an event to all connections in a session room, excluding
// the sender's own connection.
func (h *Hub) Broadcast(sessionID uuid.UUID, excludeUserID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[sessionID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws broadcast marshal error")
		return
	}

	for c := range conns {
		if c.userID == excludeUserID {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn().Err(err).Msg("ws write error")
		}
	}
}

// Upgrade checks the upgrade request and validates the JWT (query param or
// Authorization header).
func Upgrade(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// Handle keeps a connection subscribed to one chat session's room.
func (h *Hub) Handle(c *websocket.Conn) {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}

	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	h.register(sessionID, conn)
	defer h.unregister(sessionID, conn)

	// Keep connection alive — read messages (client sends pings/keepalives)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
