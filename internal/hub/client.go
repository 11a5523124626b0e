package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	sendBufferSize = 32
)

// Client wraps one WebSocket connection. The caller runs ReadPump and
// WritePump in separate goroutines.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
}

func (h *Hub) NewClient(conn *websocket.Conn) *Client {
	return &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]struct{}),
	}
}

// ReadPump reads events until the connection drops, passing each decoded
// event to onEvent. It detaches the client from the hub on exit; onClose
// runs after detachment.
func (c *Client) ReadPump(onEvent func(Event), onClose func()) {
	defer func() {
		c.hub.Leave(c)
		close(c.send)
		_ = c.conn.Close()
		if onClose != nil {
			onClose()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var e Event
		if err := json.Unmarshal(raw, &e); err != nil || e.Name == "" {
			continue
		}
		onEvent(e)
	}
}

// WritePump flushes queued events and keeps the connection alive with
// pings. It exits when the send channel closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
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

// Send queues one event directly to this client, bypassing rooms.
func (c *Client) Send(e Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}
