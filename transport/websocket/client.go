package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fourline/relay/game/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound events queued per connection before it counts as too slow.
	sendBufferSize = 256
)

// Client adapts one gorilla websocket connection to the broker's Conn
// interface. The broker's handler goroutine owns the read side via Next;
// a dedicated writePump goroutine owns the write side, draining the send
// buffer and keeping the connection alive with pings.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	quit chan struct{}

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	c := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		quit: make(chan struct{}),
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	return c
}

// ID identifies the connection in logs.
func (c *Client) ID() string { return c.id }

// Send encodes ev and enqueues it for delivery. It never blocks on the
// peer: a full buffer means the peer is not draining its connection, and
// Send reports an error so the session drops this client instead of
// stalling.
func (c *Client) Send(ev protocol.Event) error {
	data, err := protocol.Encode(ev)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("connection %s: send buffer full", c.id)
	}
}

// Next blocks until the peer's next message arrives. It returns an error
// once the connection is closed, locally or remotely.
func (c *Client) Next() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close tears the connection down. The writePump drains whatever is still
// queued, sends a close frame, and closes the underlying connection, which
// unblocks any goroutine pending in Next. Close is safe to call from any
// goroutine, any number of times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	return nil
}

// writePump pumps queued events to the websocket connection. One goroutine
// per client; it owns the connection's write side and its close: the pump
// exits when the client is closed or a write fails, closing the underlying
// connection either way.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.quit:
			c.drainAndCloseConn()
			return
		}
	}
}

// drainAndCloseConn flushes the events still buffered at close time before
// the close frame. A terminal error event is typically enqueued immediately
// before Close, and the peer must see it rather than a bare abnormal close.
func (c *Client) drainAndCloseConn() {
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
