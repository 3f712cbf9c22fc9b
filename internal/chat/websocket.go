package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSConn is a Conn over a WebSocket. Each inbound text frame may carry
// several "\r\n"-separated lines; each outbound line is one frame.
type WSConn struct {
	ws      *websocket.Conn
	pending []string
	mu      sync.Mutex
	closed  bool

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// DialWebSocket connects to the WebSocket chat endpoint at url.
//
// Postcondition: Returns a connected WSConn or a non-nil error.
func DialWebSocket(ctx context.Context, url string, readTimeout, writeTimeout time.Duration) (*WSConn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return NewWSConn(ws, readTimeout, writeTimeout), nil
}

// NewWSConn wraps an established WebSocket.
func NewWSConn(ws *websocket.Conn, readTimeout, writeTimeout time.Duration) *WSConn {
	ws.SetReadLimit(maxLineLength)
	return &WSConn{ws: ws, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

// ReadLine returns the next buffered line, reading frames as needed.
func (c *WSConn) ReadLine() (string, error) {
	for len(c.pending) == 0 {
		if c.readTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
		}
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.isClosed() {
				return "", ErrClosed
			}
			return "", err
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSuffix(line, "\r"); line != "" {
				c.pending = append(c.pending, line)
			}
		}
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

// WriteLine sends line as a single text frame.
func (c *WSConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.writeTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

// Close sends a close frame and closes the socket. Repeated calls return nil.
func (c *WSConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}

func (c *WSConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
