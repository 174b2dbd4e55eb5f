// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketClient represents a connected WebSocket client
type WebSocketClient struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	config    WebSocketConfig
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Buffered outgoing messages per client
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     64,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local demo surface
		return true
	},
}

// Hub routes published session events to the WebSocket clients of that session.
// It implements events.Publisher.
type Hub struct {
	prefix  string
	config  WebSocketConfig
	mu      sync.RWMutex
	clients map[string]map[*WebSocketClient]struct{}
	closed  bool
}

// NewHub creates a hub for events published under the subject prefix
func NewHub(prefix string, config WebSocketConfig) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 1
	}

	return &Hub{
		prefix:  prefix,
		config:  config,
		clients: make(map[string]map[*WebSocketClient]struct{}),
	}
}

// Publish delivers data to every client of the session named in the subject.
// Slow clients drop messages rather than block the publisher.
func (h *Hub) Publish(subject string, data []byte) error {
	sessionID, ok := h.sessionFromSubject(subject)
	if !ok {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[sessionID] {
		select {
		case c.send <- data:
		default:
			log.Printf("WebSocket buffer full for session %s, dropping event", sessionID)
		}
	}
	return nil
}

// ClientCount returns the number of clients connected for a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[sessionID])
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, id)
	}
}

// sessionFromSubject extracts the session ID from "<prefix>.<session>.<event>"
func (h *Hub) sessionFromSubject(subject string) (string, bool) {
	rest := strings.TrimPrefix(subject, h.prefix+".")
	if rest == subject {
		return "", false
	}

	i := strings.IndexByte(rest, '.')
	if i <= 0 {
		return "", false
	}
	return rest[:i], true
}

func (h *Hub) register(c *WebSocketClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	set, ok := h.clients[c.sessionID]
	if !ok {
		set = make(map[*WebSocketClient]struct{})
		h.clients[c.sessionID] = set
	}
	set[c] = struct{}{}
	return true
}

// unregister removes the client and closes its send channel exactly once
func (h *Hub) unregister(c *WebSocketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}

	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
	close(c.send)
}

// EventsWebSocketHandler streams the session's domain events to the browser
func (h *Hub) EventsWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	s := SessionFrom(r.Context())
	if s == nil {
		http.Error(w, "Missing session", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &WebSocketClient{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, h.config.SendBuffer),
		sessionID: s.ID,
		config:    h.config,
	}

	welcomeJSON, _ := json.Marshal(map[string]interface{}{
		"type":      "welcome",
		"sessionId": s.ID,
		"time":      time.Now(),
	})
	client.send <- welcomeJSON

	if !h.register(client) {
		conn.Close()
		return
	}

	log.Printf("New WebSocket connection for session %s", s.ID)

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so control frames are processed.
// Clients only listen; any data frames are ignored.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for session %s: %v", c.sessionID, err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		log.Printf("WebSocket connection closed for session %s", c.sessionID)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
