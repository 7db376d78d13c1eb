/*

Hub broadcasts operation lifecycle events to connected websocket
clients. One goroutine owns the client set; registration, unregistration
and broadcasts all go through its channels. A client whose send buffer
is full is dropped rather than allowed to block the hub.

*/

package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/poolscout/poolscout/internal/logger"
)

// Event names published by the service.
const (
	EventConnected           = "CONNECTED"
	EventDisconnected        = "DISCONNECTED"
	EventOperationCreated    = "OPERATION_CREATED"
	EventOperationLogCreated = "OPERATION_LOG_CREATED"
	EventLogMessage          = "LOG_MESSAGE"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is the wire format for every broadcast.
type Frame struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected client.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]struct{}
	logger     zerolog.Logger
}

// NewHub creates a Hub. Run must be called before clients connect.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*client]struct{}),
		logger:     logger.GetForComponent("socket_hub"),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug().Int("clients", len(h.clients)).Msg("Client registered")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug().Int("clients", len(h.clients)).Msg("Client unregistered")
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client, drop it so the hub never blocks.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast sends an event frame to every connected client. Safe to call
// from any goroutine.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame, err := json.Marshal(Frame{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal broadcast frame")
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn().Str("event", event).Msg("Broadcast queue full, dropping event")
	}
}

// HandleWebSocket upgrades the request and attaches the client to the
// hub. The client receives a CONNECTED frame immediately.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register <- c

	welcome, _ := json.Marshal(Frame{
		Event:     EventConnected,
		Payload:   map[string]string{"message": "connected"},
		Timestamp: time.Now().UnixMilli(),
	})
	c.send <- welcome

	go c.writePump(h)
	go c.readPump(h)
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *client) writePump(h *Hub) {
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

// readPump watches for client close. Incoming payloads are ignored; the
// stream is one-directional.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
		h.Broadcast(EventDisconnected, map[string]string{"message": "client disconnected"})
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
