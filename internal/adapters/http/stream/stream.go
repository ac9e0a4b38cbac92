// Package stream pushes project-completed events to websocket subscribers.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/pkg/logger"
	"github.com/okian/tycoon/pkg/metrics"
)

const (
	defaultClientBuffer = 32
	writeTimeout        = 5 * time.Second
	readTimeout         = 60 * time.Second
	pingInterval        = 30 * time.Second
)

// MessageTypeProjectCompleted tags completion messages on the wire.
const MessageTypeProjectCompleted = "project_completed"

// Message is the JSON frame sent to clients.
type Message struct {
	Type  string                      `json:"type"`
	Event model.ProjectCompletedEvent `json:"event"`
}

type client struct {
	out chan []byte
}

// Hub fans completion events out to every connected client. Slow clients
// whose buffer is full miss messages rather than stalling the hub.
type Hub struct {
	upgrader websocket.Upgrader
	buffer   int
	logger   logger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithClientBuffer sets how many messages may wait per client.
func WithClientBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		buffer:  defaultClientBuffer,
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("stream")
	}
	return h
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Notify broadcasts ev to every client.
func (h *Hub) Notify(ctx context.Context, ev model.ProjectCompletedEvent) {
	b, err := json.Marshal(Message{Type: MessageTypeProjectCompleted, Event: ev})
	if err != nil {
		h.logger.Error(ctx, "encode stream message", logger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.out <- b:
		default:
			metrics.RecordErrorByComponent("stream", "client_slow")
		}
	}
	metrics.RecordStreamMessage()
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.UpdateStreamClients(len(h.clients))
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.out)
	metrics.UpdateStreamClients(len(h.clients))
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.out)
	}
	metrics.UpdateStreamClients(0)
}

// Reopen accepts clients again after Close.
func (h *Hub) Reopen() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = false
}

// ServeHTTP upgrades the request and streams events until either side
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		metrics.RecordErrorByComponent("stream", "upgrade")
		return
	}
	defer conn.Close()

	c := &client{out: make(chan []byte, h.buffer)}
	if !h.add(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
		return
	}
	defer h.remove(c)

	ctx := r.Context()
	h.logger.Debug(ctx, "stream client connected", logger.String("remote", r.RemoteAddr))

	// Reader: clients send nothing, but reading surfaces closes and pongs.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return
		case b, ok := <-c.out:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
