package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Handler answers one raw client frame with one raw reply.
type Handler func(clientID string, raw []byte) []byte

// Client is one websocket connection.
type Client struct {
	ID      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

type direct struct {
	client *Client
	msg    []byte
}

// Hub tracks connected clients and fans messages out to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan direct
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int32

	handler      Handler
	commandRate  rate.Limit
	commandBurst int
	log          *slog.Logger
}

// NewHub creates a hub. handler answers client commands; commandRate limits
// how fast each client may send them.
func NewHub(handler Handler, commandRate rate.Limit, commandBurst int, logger *slog.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		broadcast:    make(chan []byte),
		direct:       make(chan direct),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		handler:      handler,
		commandRate:  commandRate,
		commandBurst: commandBurst,
		log:          logger.With("component", "hub"),
	}
}

// Run is the hub event loop. It returns when ctx is canceled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int32(len(h.clients)))
			h.log.Info("Client connected", "client", c.ID, "clients", len(h.clients))

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				h.log.Info("Client disconnected", "client", c.ID, "clients", len(h.clients))
			}

		case d := <-h.direct:
			if h.clients[d.client] {
				h.deliver(d.client, d.msg)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
		}
	}
}

// deliver queues msg without blocking; a client that cannot keep up is dropped.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.Warn("Client too slow, dropping", "client", c.ID)
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int32(len(h.clients)))
}

// Broadcast sends msg to every client. It gives up once the hub has stopped.
func (h *Hub) Broadcast(ctx context.Context, msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// BroadcastJSON marshals v and broadcasts it.
func (h *Hub) BroadcastJSON(ctx context.Context, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("Failed to encode broadcast", "error", err)
		return false
	}
	return h.Broadcast(ctx, b)
}

// Count is the number of connected clients.
func (h *Hub) Count() int { return int(h.count.Load()) }

func (h *Hub) reply(c *Client, msg []byte) {
	select {
	case h.direct <- direct{client: c, msg: msg}:
	case <-h.done:
	}
}

// Upgrader builds the websocket upgrader for the given origin allowlist.
// "*" allows any origin.
func Upgrader(origins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}
}

// ServeWs upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWs(up *websocket.Upgrader, w http.ResponseWriter, r *http.Request, welcome []byte) {
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := &Client{
		ID:      uuid.NewString(),
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(h.commandRate, h.commandBurst),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	if welcome != nil {
		h.reply(c, welcome)
	}

	go c.writePump()
	go c.readPump()
}

// readPump turns client frames into commands and queues the replies.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("Websocket read failed", "client", c.ID, "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.hub.reply(c, encodeError(ErrRateLimited))
			continue
		}
		if out := c.hub.handler(c.ID, raw); out != nil {
			c.hub.reply(c, out)
		}
	}
}

// writePump drains the send queue until the hub closes it.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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
