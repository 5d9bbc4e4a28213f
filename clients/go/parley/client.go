// Package parley provides a client for the parley chat relay.
package parley

import (
	"context"
	"net/url"
	"strings"

	"nhooyr.io/websocket"
)

// Client is a connection to one room on a parley relay.
type Client struct {
	conn *websocket.Conn
	room string
}

// Dial connects to a relay and joins a room. baseURL is the relay address,
// e.g. "ws://localhost:8080". The session starts anonymous; call SetName
// before sending chat messages.
func Dial(ctx context.Context, baseURL, room string) (*Client, error) {
	wsURL := strings.TrimRight(baseURL, "/") + "/ws/" + url.PathEscape(room)

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn, room: room}, nil
}

// Room returns the room this client joined.
func (c *Client) Room() string { return c.room }

// SetName claims or replaces the display name. The relay answers with a
// replay of the room's recent history followed by a join announcement to
// the other occupants.
func (c *Client) SetName(ctx context.Context, name string) error {
	return c.send(ctx, "/user "+name)
}

// Send posts a chat message to the room. The relay rejects messages from
// anonymous sessions with an inline notice.
func (c *Client) Send(ctx context.Context, text string) error {
	return c.send(ctx, text)
}

// RequestHistory asks for a full replay of the room's recent history.
func (c *Client) RequestHistory(ctx context.Context) error {
	return c.send(ctx, "/history")
}

// Receive blocks until the next line from the relay arrives.
func (c *Client) Receive(ctx context.Context) (string, error) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return "", err
		}
		if typ == websocket.MessageText {
			return string(data), nil
		}
	}
}

// Close closes the connection normally. The relay announces the departure
// to the room if this session had set a name.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (c *Client) send(ctx context.Context, text string) error {
	return c.conn.Write(ctx, websocket.MessageText, []byte(text))
}
