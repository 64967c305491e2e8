package trackclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/fiskryeziu/hotdrop/ws"
)

// Client subscribes to one order's room over the tracking websocket and
// feeds events into a Tracker.
type Client struct {
	conn    *websocket.Conn
	tracker *Tracker
}

// Dial connects to the tracking endpoint. The token rides in the query
// string, matching what the WS auth middleware expects from browsers.
func Dial(ctx context.Context, endpoint, token string, tracker *Tracker) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("tracking endpoint: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial tracking: %w", err)
	}
	return &Client{conn: conn, tracker: tracker}, nil
}

// JoinOrderRoom subscribes to the tracker's order. Must be re-sent after
// every reconnect; the server keeps no membership across connections.
func (c *Client) JoinOrderRoom() error {
	data, err := json.Marshal(map[string]string{
		"orderId": strconv.FormatUint(uint64(c.tracker.orderID), 10),
	})
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(ws.Envelope{Event: ws.EventJoinOrderRoom, Data: data})
}

// Run reads events until the connection drops or ctx is cancelled,
// refreshing the route whenever the driver has moved materially.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		var env ws.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		c.tracker.Apply(env.Event, env.Data)
		if c.tracker.NeedsRoute() {
			c.tracker.RefreshRoute(ctx)
		}
	}
}

func (c *Client) Close() error { return c.conn.Close() }
