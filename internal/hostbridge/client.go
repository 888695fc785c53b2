package hostbridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

type Client struct {
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte
	session  *Session
	log      *slog.Logger
	ID       string
}

func NewClient(registry *Registry, conn *websocket.Conn, id string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		registry: registry,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		log:      logger.With("client", id),
		ID:       id,
	}
}

// Attach binds the session the client drives.
func (c *Client) Attach(s *Session) {
	c.session = s
}

// ReadPump feeds inbound messages to the session one at a time until the
// connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.registry.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.log.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("invalid message", "error", err)
			c.session.Fail(nil, err)
			continue
		}

		if err := c.session.Handle(&msg); err != nil {
			c.log.Debug("message rejected", "type", msg.Type, "error", err)
			c.session.Fail(&msg, err)
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg for the write pump. Messages are dropped when the host
// falls too far behind.
func (c *Client) Send(msg *Message) {
	msg.ClientID = c.ID
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}
