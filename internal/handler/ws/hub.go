// Package ws pushes trend event snapshots to connected dashboard clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 8
)

type client struct {
	conn *websocket.Conn
	out  chan []byte
}

// Hub tracks connected WebSocket clients and fans event snapshots out to
// them. A client that cannot keep up is dropped rather than allowed to block
// the rest.
type Hub struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is same-origin-agnostic; access control lives at the
			// network layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Serve upgrades the connection and registers the client. The current event
// log snapshot is sent as a greeting so a fresh dashboard renders history
// without waiting for the next flip.
func (h *Hub) Serve(c echo.Context, snapshot []models.TrendEvent) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, out: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Info("websocket client connected",
		logger.String("remote", conn.RemoteAddr().String()),
		logger.Int("clients", count),
	)

	if payload, err := json.Marshal(snapshot); err == nil {
		select {
		case cl.out <- payload:
		default:
		}
	}

	go h.writeLoop(cl)
	go h.readLoop(cl)
	return nil
}

// Broadcast queues the snapshot for every connected client. Clients whose
// buffers are full are disconnected.
func (h *Hub) Broadcast(ctx context.Context, events []models.TrendEvent) {
	payload, err := json.Marshal(events)
	if err != nil {
		h.log.Error("marshal broadcast", logger.Error(err))
		return
	}

	h.mu.RLock()
	var slow []*client
	for cl := range h.clients {
		select {
		case cl.out <- payload:
		default:
			slow = append(slow, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range slow {
		h.log.Warn("dropping slow websocket client",
			logger.String("remote", cl.conn.RemoteAddr().String()),
		)
		h.remove(cl)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		h.remove(cl)
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	if ok {
		delete(h.clients, cl)
		close(cl.out)
	}
	h.mu.Unlock()
	if ok {
		_ = cl.conn.Close()
	}
}

// writeLoop drains the client's outbound queue and keeps the connection
// alive with pings.
func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-cl.out:
			if !ok {
				_ = cl.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeWait))
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.remove(cl)
				return
			}
		case <-ticker.C:
			if err := cl.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.remove(cl)
				return
			}
		}
	}
}

// readLoop discards inbound frames; it exists to notice closed connections.
func (h *Hub) readLoop(cl *client) {
	cl.conn.SetReadLimit(512)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			h.remove(cl)
			return
		}
	}
}
