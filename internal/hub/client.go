package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// writePump drains the send channel and keeps the connection alive with pings.
// It owns all writes to conn.
func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second),
				)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.hub.logger.Debug("write failed", "client_id", c.id, "error", err)
				c.hub.unregister(c)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.hub.cfg.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.hub.logger.Debug("failed to send ping", "client_id", c.id, "error", err)
				c.hub.unregister(c)
				return
			}
		}
	}
}

// readPump discards inbound data messages and processes control frames.
// Browsers never send anything meaningful; reading is needed to see pongs and close.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.hub.logger.Debug("client disconnected", "client_id", c.id)
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}
