package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ehz-labs/ocr-api/internal/cache"
	"github.com/ehz-labs/ocr-api/internal/logger"
	"github.com/ehz-labs/ocr-api/internal/metrics"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// How often cache statistics are pushed to connected clients
	statsPushInterval = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware handles origin policy
		return true
	},
}

// StatsMessage wraps a payload pushed over the stats stream.
type StatsMessage struct {
	Type    string      `json:"type"` // "stats", "ping"
	Payload interface{} `json:"payload"`
}

// Client represents one connected stats stream subscriber.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and pushes cache statistics to
// them on a fixed interval.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	cache cache.Cache

	mu sync.RWMutex
}

// NewHub creates a new stats stream hub.
func NewHub(c cache.Cache) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		cache:      c,
	}
}

// Run starts the hub's main loop and the stats push ticker.
func (h *Hub) Run(ctx context.Context) {
	go h.pushStats(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketConnections.Inc()
			logger.Info("Stats stream client connected", "total_clients", total)

			// Send a snapshot immediately so new clients don't wait a tick
			if data, err := h.snapshot(); err == nil {
				select {
				case client.send <- data:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.WebSocketConnections.Dec()
				logger.Info("Stats stream client disconnected", "total_clients", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, drop the connection
					close(client.send)
					delete(h.clients, client)
					metrics.WebSocketConnections.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

// pushStats broadcasts a stats snapshot on every tick while clients are connected.
func (h *Hub) pushStats(ctx context.Context) {
	ticker := time.NewTicker(statsPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.RLock()
			clientCount := len(h.clients)
			h.mu.RUnlock()

			if clientCount == 0 {
				continue
			}

			data, err := h.snapshot()
			if err != nil {
				logger.Warn("Failed to marshal stats snapshot", "error", err)
				continue
			}

			h.broadcast <- data
			metrics.WebSocketMessagesSent.Add(float64(clientCount))
		}
	}
}

func (h *Hub) snapshot() ([]byte, error) {
	return json.Marshal(StatsMessage{
		Type:    "stats",
		Payload: h.cache.Stats(),
	})
}

// readPump drains messages from the peer so control frames are processed.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Stats stream unexpected close", "error", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
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
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// WebSocketHandler upgrades connections onto the stats stream hub.
type WebSocketHandler struct {
	hub *Hub
}

// NewWebSocketHandler creates a handler bound to an already running hub.
func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket handles WebSocket upgrade and client connection.
// GET /ws/stats
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
