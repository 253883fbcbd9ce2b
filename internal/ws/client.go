package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/hub"
	"github.com/khushalshaarma/vedacode-signaling/internal/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers fit well
	// within this.
	maxMessageSize = 64 * 1024

	// Outbound queue depth per connection.
	sendQueueSize = 256
)

// Client is one live websocket connection.
type Client struct {
	id        string
	conn      *websocket.Conn
	hub       *hub.Hub
	transport *Transport
	send      chan protocol.Message
	log       zerolog.Logger
}

// readPump pumps frames from the websocket into the hub. It is the
// only reader on the connection. On exit it tears the connection down:
// transport removal first so no further send targets this ID, then the
// hub disconnect so peers get their user-left notifications.
func (c *Client) readPump() {
	defer func() {
		c.transport.remove(c.id)
		c.hub.Disconnect(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Str("conn", c.id).Msg("read error")
			}
			return
		}
		c.hub.Dispatch(c.id, msg)
	}
}

// writePump pumps frames from the send queue to the websocket and
// keeps the connection alive with pings. It is the only writer on the
// connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The transport closed the queue.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn().Err(err).Str("conn", c.id).Msg("write error")
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
