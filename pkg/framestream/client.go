package framestream

import "github.com/gorilla/websocket"

// client is one connected viewer. Writes are serialized through send;
// readPump exists only to notice the connection closing, since viewers
// never send anything back.
type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

func (c *client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
