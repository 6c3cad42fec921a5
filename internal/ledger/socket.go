package ledger

import (
	"context" // Cancellation of the reconnect loop
	"sync"    // Connection guard
	"time"    // Reconnect delay
	"wallet_relay/internal/domain"

	"github.com/gorilla/websocket" // WebSocket transport
	"github.com/sirupsen/logrus"   // Logging library
)

// ReconnectDelay is the fixed wait between connection attempts. Retries are
// unbounded, with no backoff growth and no cap.
const ReconnectDelay = 5 * time.Second

// Connector maintains the ledger's one outbound persistent connection to
// the relay. While connected it feeds every incoming envelope to the
// ledger; on loss it marks both nodes offline and retries after the fixed
// delay. It implements Broadcaster for outgoing transfers.
type Connector struct {
	url        string
	ledger     *Ledger
	retryDelay time.Duration

	mu   sync.Mutex // Guards conn and serializes writes
	conn *websocket.Conn
}

// NewConnector builds a connector for the given ws:// URL.
func NewConnector(url string, ledger *Ledger) *Connector {
	return &Connector{url: url, ledger: ledger, retryDelay: ReconnectDelay}
}

// SetRetryDelay overrides the fixed reconnect delay.
func (c *Connector) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// Run dials and re-dials the relay until ctx is cancelled. Cancellation is
// the extension point; the original page runs this loop forever.
func (c *Connector) Run(ctx context.Context) {
	for {
		c.runOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryDelay): // Fixed delay before the next attempt
		}
	}
}

// runOnce performs a single connect / read-until-broken cycle.
func (c *Connector) runOnce(ctx context.Context) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("WebSocket connection failed")
		c.ledger.MarkOnline(false)
		return
	}
	logrus.WithField("url", c.url).Info("WebSocket connected")
	c.setConn(conn)
	c.ledger.MarkOnline(true)

	// Unblock the read loop when the context is cancelled.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break // Connection lost
		}
		env, err := domain.DecodeEnvelope(raw)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Message handling failed")
			continue // Malformed frame, connection stays usable
		}
		c.ledger.Observe(env)
	}
	close(stop)
	c.setConn(nil)
	_ = conn.Close()
	c.ledger.MarkOnline(false)
	logrus.Info("WebSocket disconnected")
}

// setConn swaps the active connection.
func (c *Connector) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// Send writes the envelope if and only if the connection is currently
// open; otherwise it silently no-ops. No queuing, no retry.
func (c *Connector) Send(env domain.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}
	if err := c.conn.WriteJSON(env); err != nil {
		logrus.WithField("error", err.Error()).Error("WebSocket send failed")
		return false
	}
	return true
}
