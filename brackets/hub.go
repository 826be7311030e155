package brackets

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

// Типы событий, которые получают подписчики комнаты турнира.
const (
	EventRoundGenerated   = "ROUND_GENERATED"
	EventMatchUpdated     = "MATCH_UPDATED"
	EventStandingsUpdated = "STANDINGS_UPDATED"
	EventTeamsUpdated     = "TEAMS_UPDATED"
	EventTournamentClosed = "TOURNAMENT_COMPLETED"
)

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// RoomForTournament is the room name clients of one tournament share.
func RoomForTournament(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger.With(slog.String("component", "ws_hub")),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister requests until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Debug("client registered", slog.String("room", client.Room), slog.Int("clients", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room][client]; ok {
				client.Mu.Lock()
				if !client.IsClosed {
					close(client.Send)
					client.IsClosed = true
				}
				client.Mu.Unlock()
				delete(h.rooms[client.Room], client)
				if len(h.rooms[client.Room]) == 0 {
					delete(h.rooms, client.Room)
					h.logger.Debug("room closed", slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Join registers client. It returns false once the hub is stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// RoomSize returns how many clients listen on roomID.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends message as JSON to every client in roomID. Slow clients
// whose buffers are full miss the message.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("client send buffer full, dropping message", slog.String("room", roomID))
		}
		client.Mu.Unlock()
	}
}

// ReadPump only drains control frames; clients are listeners.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("unexpected websocket close", slog.String("room", c.Room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug("websocket write failed", slog.String("room", c.Room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
