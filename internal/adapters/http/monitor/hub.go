// Package monitor streams processed frames to websocket clients.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/venkman/internal/domain/types"
	"github.com/okian/venkman/pkg/logger"
	"github.com/okian/venkman/pkg/metrics"
)

const (
	defaultBuffer = 64
	writeWait     = 5 * time.Second
)

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithBuffer sets how many updates a client may lag behind before updates
// to it are dropped.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans frame updates out to every connected client. Publish never
// blocks the session that calls it.
type Hub struct {
	upgrader websocket.Upgrader
	logger   logger.Logger
	buffer   int

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:   logger.Discard(),
		buffer:   defaultBuffer,
		clients:  make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends u to every client with room in its buffer.
func (h *Hub) Publish(u types.FrameUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}
	payload, err := json.Marshal(u)
	if err != nil {
		metrics.RecordErrorByComponent("monitor", "marshal")
		return
	}
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			metrics.RecordMonitorDropped()
		}
	}
}

// ServeHTTP upgrades the request and streams updates until the client
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.buffer)}
	h.register(c)
	h.logger.Info(r.Context(), "monitor client connected", logger.String("remote", r.RemoteAddr))

	go h.writeLoop(c)

	// Reads only detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
	h.logger.Info(r.Context(), "monitor client disconnected", logger.String("remote", r.RemoteAddr))
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.unregister(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateMonitorClients(n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateMonitorClients(n)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
	metrics.UpdateMonitorClients(0)
}
