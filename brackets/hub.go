package brackets

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types pushed to websocket rooms.
const (
	MessageBracketUpdated  = "BRACKET_UPDATED"
	MessageScheduleUpdated = "SCHEDULE_UPDATED"
	MessageMatchUpdated    = "MATCH_UPDATED"
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
	sendBuffer     = 256
)

// Client is one websocket subscriber of a discipline room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	room string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{hub: hub, conn: conn, room: room, send: make(chan []byte, sendBuffer)}
}

func (c *Client) Room() string { return c.room }

// deliver queues msg without blocking; false means the client is gone or
// its buffer is full.
func (c *Client) deliver(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// Hub fans out bracket and schedule changes to every client watching a
// discipline room. Run owns the membership changes; broadcasts only take the
// read lock.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		logger:     logger,
	}
}

// Run processes joins and leaves until ctx is cancelled, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[c.room]; !ok {
				h.rooms[c.room] = make(map[*Client]struct{})
			}
			h.rooms[c.room][c] = struct{}{}
			n := len(h.rooms[c.room])
			h.mu.Unlock()
			h.logger.Info("websocket client registered", slog.String("room", c.room), slog.Int("clients", n))
		case c := <-h.unregister:
			h.remove(c)
		}
	}
}

// Join adds c to its room. It reports false once the hub has stopped.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	clients, ok := h.rooms[c.room]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := clients[c]; !member {
		h.mu.Unlock()
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, c.room)
	}
	n := len(clients)
	h.mu.Unlock()

	c.closeSend()
	h.logger.Info("websocket client unregistered", slog.String("room", c.room), slog.Int("clients", n))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for room, clients := range h.rooms {
		for c := range clients {
			c.closeSend()
			total++
		}
		delete(h.rooms, room)
	}
	h.logger.Info("websocket hub stopped", slog.Int("disconnected", total))
}

// RoomSize is the number of clients currently in room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends a typed message to every client of roomID. Slow
// clients with a full buffer miss the message rather than block the hub.
func (h *Hub) BroadcastToRoom(roomID string, messageType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	msg, err := json.Marshal(WebSocketMessage{Type: messageType, Payload: payload, RoomID: roomID})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	dropped := 0
	for c := range clients {
		if !c.deliver(msg) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("websocket messages dropped", slog.String("room", roomID), slog.String("type", messageType), slog.Int("clients", dropped))
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		// clients only listen; anything they send is discarded
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket closed unexpectedly", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn("websocket write failed", slog.String("room", c.room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
