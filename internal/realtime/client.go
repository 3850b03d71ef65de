package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	sendQueueSize = 64
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
)

// Conn is the subset of the WebSocket connection the hub needs; satisfied by
// *websocket.Conn and faked in tests.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one connected observer. Events are queued on a buffered channel
// and written by a single goroutine, which keeps delivery in-order per
// connection.
type Client struct {
	hub  *Hub
	conn Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// ServeConn registers the connection and pumps events to it until the peer
// goes away. It blocks, matching the contract of gofiber websocket handlers.
func (h *Hub) ServeConn(conn Conn) {
	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
	c.done = make(chan struct{})

	h.register(c)
	defer func() {
		h.unregister(c)
		c.close()
	}()

	go c.writePump()
	c.readPump()
}

// readPump discards inbound frames; clients talk to the server over HTTP, the
// socket is downstream-only. Reading is still required to process control
// frames and detect closure.
func (c *Client) readPump() {
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

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
		c.hub.unregister(c)
	})
}
