package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // under pongWait, and under common 60s proxy timeouts
	sendBuffer = 256
)

// Hub accepts WebSocket connections and bridges them onto the
// coordinator: inbound frames become envelopes, outbound messages flow
// through each connection's buffered send channel.
type Hub struct {
	coordinator *Coordinator
	logger      *slog.Logger
	upgrader    websocket.Upgrader

	mu          sync.Mutex
	connections map[string]*Connection
}

// Connection is one client's duplex stream. It implements Sender for
// the broadcaster; Send never blocks the coordinator.
type Connection struct {
	SessionID string

	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
	closeOnce sync.Once
}

// NewHub creates a hub bound to the coordinator.
func NewHub(coordinator *Coordinator, logger *slog.Logger) *Hub {
	return &Hub{
		coordinator: coordinator,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The game client is served from this same process.
				return true
			},
		},
		connections: make(map[string]*Connection),
	}
}

// ServeWS upgrades an HTTP request, mints a session id and attaches the
// connection to the coordinator.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &Connection{
		SessionID: uuid.NewString(),
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		hub:       h,
	}

	h.mu.Lock()
	h.connections[c.SessionID] = c
	h.mu.Unlock()

	h.coordinator.Connect(c.SessionID, c)

	go c.writePump()
	go c.readPump()

	h.logger.Info("connection established", "session_id", c.SessionID)
}

// Send buffers one outbound message. A full buffer drops the message
// rather than stalling the coordinator on a slow client.
func (c *Connection) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("send buffer full, dropping message",
			"session_id", c.SessionID)
	}
}

// Stop closes every live connection.
func (h *Hub) Stop() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.connections))
	for _, c := range h.connections {
		conns = append(conns, c)
	}
	h.connections = make(map[string]*Connection)
	h.mu.Unlock()

	for _, c := range conns {
		// Detach from the coordinator before closing the send channel
		// so no broadcast races a closed channel.
		h.coordinator.Disconnect(c.SessionID)
		c.close()
	}
	h.logger.Info("websocket hub stopped")
}

// ConnectionCount reports the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (h *Hub) drop(c *Connection) {
	h.mu.Lock()
	if current, ok := h.connections[c.SessionID]; ok && current == c {
		delete(h.connections, c.SessionID)
	}
	h.mu.Unlock()

	h.coordinator.Disconnect(c.SessionID)
	c.close()
}

func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
	c.conn.Close()
}

// readPump parses inbound frames into envelopes and hands them to the
// coordinator. A read error of any kind counts as a disconnect; there
// is no session resumption.
func (c *Connection) readPump() {
	defer c.hub.drop(c)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.hub.logger.Error("failed to set read deadline", "error", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error",
					"session_id", c.SessionID,
					"error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.hub.logger.Warn("discarding malformed envelope",
				"session_id", c.SessionID,
				"error", err)
			continue
		}

		c.hub.coordinator.HandleEnvelope(c.SessionID, env)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.hub.logger.Error("failed to set write deadline", "error", err)
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Drain whatever queued up behind this message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.hub.logger.Error("failed to set write deadline", "error", err)
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
