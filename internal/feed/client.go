package feed

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is one established upstream connection.
type Conn interface {
	// ReadFrame returns the next text frame from the feed.
	ReadFrame() ([]byte, error)

	// Close tears down the connection.
	Close() error
}

// Dialer establishes upstream connections. The ingestor takes a Dialer so
// tests can drive the reconnect state machine without a network.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WSDialer dials real WebSocket connections.
type WSDialer struct {
	HandshakeTimeout time.Duration
}

// Dial connects to the given WebSocket URL. The connection answers upstream
// protocol pings with pongs carrying the identical payload; some upstreams
// disconnect idle clients that do not.
func (d WSDialer) Dial(ctx context.Context, url string) (Conn, error) {
	timeout := d.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	return &wsConn{conn: conn}, nil
}

// wsConn adapts a gorilla connection to the Conn interface.
type wsConn struct {
	conn *websocket.Conn
}

// ReadFrame returns the next text frame, skipping binary frames. Control
// frames (ping/pong/close) are handled by gorilla during the read.
func (c *wsConn) ReadFrame() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage {
			return data, nil
		}
	}
}

// Close sends a close frame and tears down the connection.
func (c *wsConn) Close() error {
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}
