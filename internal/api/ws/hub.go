// Package ws hosts the dashboard presence socket.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/platform"
)

// presenceMessage is the wire shape pushed to connected dashboards.
type presenceMessage struct {
	Type     string `json:"type"`
	GuildID  string `json:"guild_id,omitempty"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Status   string `json:"status"`
}

// Hub tracks connected presence sockets and fans presence updates out to
// all of them. Slow or dead clients are dropped, never waited on.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
		logger:  logger,
	}
}

// BroadcastPresence pushes one presence change to every connected client.
func (h *Hub) BroadcastPresence(update platform.PresenceUpdate) {
	payload, err := json.Marshal(presenceMessage{
		Type:     "presence_update",
		GuildID:  update.GuildID,
		UserID:   update.UserID,
		Username: update.Username,
		Status:   update.Status,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			// Back-pressured client; drop the frame rather than the stream.
			h.logger.Debug("presence frame dropped", zap.String("remote", conn.RemoteAddr().String()))
		}
	}
}

// ClientCount returns how many sockets are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler serves one presence socket. It registers the connection, pumps
// outbound frames, and drains inbound frames only to detect close.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		send := make(chan []byte, 16)

		h.mu.Lock()
		h.clients[conn] = send
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			close(send)
			_ = conn.Close()
		}()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case payload := <-send:
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}
		}
	}
}
