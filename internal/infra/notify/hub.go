// Package notify pushes bus events to dashboard websocket clients.
package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hyvewyre/lead-api/internal/events"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan events.Envelope
}

// Hub fans envelopes out to the websocket clients of the envelope's user.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		clients:  make(map[*client]struct{}),
	}
}

// Attach forwards every bus topic into the hub. Call the returned func to detach.
func (h *Hub) Attach(bus *events.Bus) func() {
	return bus.Forward(h.Broadcast)
}

// Broadcast never blocks the publisher: clients with a full buffer are dropped.
func (h *Hub) Broadcast(env events.Envelope) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if c.userID != env.UserID {
			continue
		}
		select {
		case c.send <- env:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("dropping slow websocket client", "user_id", c.userID)
		h.remove(c)
	}
}

func (h *Hub) Clients(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// Serve upgrades the request and streams userID's events until the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{userID: userID, conn: conn, send: make(chan events.Envelope, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)

	// Reads only detect the close; clients do not send anything.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	return nil
}

func (h *Hub) writeLoop(c *client) {
	for env := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(env); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = c.conn.Close()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
