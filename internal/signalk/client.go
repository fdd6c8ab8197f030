package signalk

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// subscriptionPeriod is how often the server reports each subscribed path.
const subscriptionPeriod = 1000 * time.Millisecond

// BackoffConfig controls the reconnect delay after a dropped connection.
type BackoffConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff is used when no backoff is configured.
var DefaultBackoff = BackoffConfig{
	InitialInterval: 1 * time.Second,
	MaxInterval:     30 * time.Second,
}

// Handler receives one path/value pair per delta.
type Handler func(path string, value json.RawMessage)

// Client maintains a subscription to a Signal K server's delta stream and
// forwards received values to a handler. It reconnects with capped
// exponential backoff when the connection drops.
type Client struct {
	url     string
	paths   []string
	handler Handler
	backoff BackoffConfig
	dialer  *websocket.Dialer
}

// NewClient creates a Client for the given stream endpoint and paths.
func NewClient(streamURL string, paths []string, handler Handler) (*Client, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return nil, err
	}

	// subscribe=none suppresses the server's default full-model stream;
	// we request exactly the paths we need after connecting.
	q := u.Query()
	q.Set("subscribe", "none")
	u.RawQuery = q.Encode()

	return &Client{
		url:     u.String(),
		paths:   paths,
		handler: handler,
		backoff: DefaultBackoff,
		dialer:  websocket.DefaultDialer,
	}, nil
}

// Run connects and consumes deltas until ctx is cancelled. Connection
// failures are logged and retried; Run only returns on cancellation.
func (c *Client) Run(ctx context.Context) error {
	delay := c.backoff.InitialInterval
	for {
		if err := c.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("ERROR: signalk stream: %v (reconnecting in %s)", err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}
	}
}

// consume runs one connection: dial, subscribe, then read deltas until the
// connection breaks or ctx is cancelled.
func (c *Client) consume(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Close the socket when ctx is cancelled so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(newSubscribeRequest(c.paths, int(subscriptionPeriod.Milliseconds()))); err != nil {
		return err
	}
	log.Printf("INFO: subscribed to %d paths on %s", len(c.paths), c.url)

	for {
		var delta Delta
		if err := conn.ReadJSON(&delta); err != nil {
			return err
		}

		pv, ok := delta.First()
		if !ok {
			continue
		}
		c.handler(pv.Path, pv.Value)
	}
}
