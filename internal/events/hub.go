package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"installations-bknd/internal/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 16
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

type localSub struct {
	ch chan Event
}

// Hub fans events out to websocket clients and in-process subscribers.
// All subscriber state is owned by the Run goroutine.
type Hub struct {
	logr     *zap.Logger
	metrics  *metrics.Collector
	upgrader websocket.Upgrader

	publish     chan Event
	register    chan *wsClient
	unregister  chan *wsClient
	subscribe   chan *localSub
	unsubscribe chan *localSub
	done        chan struct{}
}

// NewHub creates a hub. Origins restricts websocket upgrades; empty allows
// any origin.
func NewHub(logr *zap.Logger, m *metrics.Collector, origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Hub{
		logr:    logr,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		publish:     make(chan Event, 64),
		register:    make(chan *wsClient),
		unregister:  make(chan *wsClient),
		subscribe:   make(chan *localSub),
		unsubscribe: make(chan *localSub),
		done:        make(chan struct{}),
	}
}

// Run dispatches events until ctx is cancelled. Slow consumers are dropped.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	clients := make(map[*wsClient]bool)
	locals := make(map[*localSub]bool)
	drop := func(c *wsClient) {
		if clients[c] {
			delete(clients, c)
			close(c.send)
			h.metrics.SetEventClients(len(clients))
		}
	}

	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				drop(c)
			}
			for s := range locals {
				close(s.ch)
			}
			return

		case c := <-h.register:
			clients[c] = true
			h.metrics.SetEventClients(len(clients))
			h.logr.Debug("event client connected", zap.Int("clients", len(clients)))

		case c := <-h.unregister:
			drop(c)

		case s := <-h.subscribe:
			locals[s] = true

		case s := <-h.unsubscribe:
			if locals[s] {
				delete(locals, s)
				close(s.ch)
			}

		case ev := <-h.publish:
			data, err := json.Marshal(ev)
			if err != nil {
				h.logr.Error("failed to encode event", zap.Error(err))
				continue
			}
			for c := range clients {
				select {
				case c.send <- data:
				default:
					h.logr.Warn("event client too slow, dropping")
					drop(c)
				}
			}
			for s := range locals {
				select {
				case s.ch <- ev:
				default:
				}
			}
		}
	}
}

// Publish queues an event. It never blocks the caller; events published
// after the hub stopped or while the queue is full are dropped.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case h.publish <- ev:
	default:
		h.logr.Warn("event queue full, dropping event", zap.String("type", string(ev.Type)))
	}
}

// Subscribe returns a channel of events and a cancel function. The channel
// is closed after cancel or when the hub stops.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	s := &localSub{ch: make(chan Event, buffer)}
	select {
	case h.subscribe <- s:
	case <-h.done:
		close(s.ch)
		return s.ch, func() {}
	}
	return s.ch, func() {
		select {
		case h.unsubscribe <- s:
		case <-h.done:
		}
	}
}

// ServeWS upgrades the request and streams events to the client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logr.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// readPump only handles control frames; clients do not send events.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
