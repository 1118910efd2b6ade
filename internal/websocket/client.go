package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	readLimit      = 64 << 10
)

// Sender delivers messages to one client.
type Sender interface {
	Send(Message) bool
}

// Screen is the per-connection state behind a websocket. It is created when
// the connection opens and closed when it ends.
type Screen interface {
	// Start runs once after the connection is registered.
	Start(ctx context.Context)
	// Handle applies one client command.
	Handle(ctx context.Context, cmd Command)
	// Close releases the screen. No messages may be sent afterwards.
	Close() error
}

// ScreenFactory builds the screen for a new connection.
type ScreenFactory func(ctx context.Context, out Sender) (Screen, error)

// Client represents a single WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	kind   string
	logger *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
	// goAway holds the close reason once the hub asked the client to leave.
	goAway *string
}

// NewClient creates a Client tied to the given hub and connection.
func NewClient(hub *Hub, conn *ws.Conn, kind string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		kind:   kind,
		logger: hub.logger.With("screen", kind),
		send:   make(chan []byte, sendBufferSize),
	}
}

// Send queues a message for the client. It returns false if the message was
// dropped because the client is gone or its buffer is full.
func (c *Client) Send(msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "type", msg.Type, "error", err)
		return false
	}
	return c.enqueue(data)
}

func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		// Buffer full; drop rather than block the sender.
		c.logger.Warn("send buffer full, dropping message")
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// leave stops accepting messages. The write pump writes what is already
// queued and then closes the connection as going away.
func (c *Client) leave(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.goAway = &reason
		close(c.send)
	}
}

func (c *Client) goAwayReason() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.goAway == nil {
		return "", false
	}
	return *c.goAway, true
}

// Run registers the client, builds its screen, starts the write pump, and
// runs the read pump. It blocks until the connection is closed, then closes
// the screen and unregisters.
func (c *Client) Run(ctx context.Context, factory ScreenFactory) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)

	screen, err := factory(ctx, c)
	if err != nil {
		c.logger.Error("open screen", "error", err)
		c.conn.Close(ws.StatusInternalError, "screen unavailable")
		return
	}
	defer func() {
		if err := screen.Close(); err != nil {
			c.logger.Warn("close screen", "error", err)
		}
	}()

	screen.Start(ctx)
	c.readPump(ctx, screen)
}

// readPump decodes commands and hands them to the screen. It returns on error
// (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context, screen Screen) {
	c.conn.SetReadLimit(readLimit)
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			if status := ws.CloseStatus(err); status != ws.StatusNormalClosure && status != ws.StatusGoingAway && !errors.Is(err, context.Canceled) {
				c.logger.Debug("read", "error", err)
			}
			return
		}
		if typ != ws.MessageText {
			c.Send(Error("binary frames are not supported"))
			continue
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.Send(Error("invalid JSON"))
			continue
		}
		screen.Handle(ctx, cmd)
	}
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				if reason, leaving := c.goAwayReason(); leaving {
					c.conn.Close(ws.StatusGoingAway, reason)
				}
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
