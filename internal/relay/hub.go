package relay

import (
	"net/http" // WebSocket upgrade entry point
	"sync"     // Connection set guard
	"wallet_relay/internal/domain"

	"github.com/gorilla/websocket" // WebSocket transport
	"github.com/sirupsen/logrus"   // Logging library
)

// TransactionHook runs for every accepted transaction, off the broadcast
// path. Typically wired to the email notifier.
type TransactionHook func(tx domain.Transaction)

// Conn is one live client connection. Writes are serialized because
// broadcasts and eviction may race on the same socket.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// send writes one text frame to the peer.
func (c *Conn) send(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, raw)
}

// Hub owns the set of currently open connections and fans transaction
// envelopes out between them. It holds no domain state.
type Hub struct {
	mu       sync.Mutex
	conns    map[*Conn]struct{}
	hook     TransactionHook
	upgrader websocket.Upgrader
}

// NewHub creates a hub with an explicit connection set (no package globals).
func NewHub(hook TransactionHook) *Hub {
	return &Hub{
		conns: make(map[*Conn]struct{}),
		hook:  hook,
		upgrader: websocket.Upgrader{
			// The demo accepts connections from any page origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler upgrades incoming HTTP requests to WebSocket connections and
// runs their read loops. No handshake payload is required.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("WebSocket upgrade failed")
			return
		}
		conn := h.register(ws)
		h.readLoop(conn)
	})
}

// register adds a new connection to the live set.
func (h *Hub) register(ws *websocket.Conn) *Conn {
	conn := &Conn{ws: ws}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	logrus.WithField("remote", ws.RemoteAddr().String()).Info("Client connected")
	return conn
}

// unregister removes a connection from the live set; terminal.
func (h *Hub) unregister(conn *Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.ws.Close()
	logrus.Info("Client disconnected")
}

// readLoop processes frames from one connection in receipt order.
func (h *Hub) readLoop(conn *Conn) {
	defer h.unregister(conn)
	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			return // Connection closed or broken
		}
		h.HandleMessage(raw, conn)
	}
}

// HandleMessage parses one raw frame. Malformed JSON is logged and dropped;
// the connection stays open and nothing is sent back. A TRANSACTION envelope
// triggers the hook and is rebroadcast verbatim to every other connection.
// Unrecognized envelope types are ignored.
func (h *Hub) HandleMessage(raw []byte, from *Conn) {
	env, err := domain.DecodeEnvelope(raw)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Message handling failed")
		return
	}
	if env.Type != domain.TypeTransaction {
		return // Unknown tag, no-op
	}
	tx, err := env.Transaction()
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Message handling failed")
		return
	}
	if h.hook != nil {
		// Fire-and-forget: a slow or failing hook must not block the broadcast.
		go h.hook(tx)
	}
	logrus.WithFields(logrus.Fields{
		"tx_id":     tx.ID,        // Transaction id
		"sender":    tx.Sender,    // Sender address
		"recipient": tx.Recipient, // Recipient address
		"amount":    tx.Amount,    // Transfer amount
	}).Info("Transaction received")
	h.Broadcast(raw, from)
}

// Broadcast sends the frame verbatim to every open connection except
// exclude. Connections that fail the write are evicted, not retried.
func (h *Hub) Broadcast(raw []byte, exclude *Conn) {
	h.mu.Lock()
	targets := make([]*Conn, 0, len(h.conns))
	for conn := range h.conns {
		if conn != exclude {
			targets = append(targets, conn)
		}
	}
	h.mu.Unlock()
	for _, conn := range targets {
		if err := conn.send(raw); err != nil {
			logrus.WithField("error", err.Error()).Error("Broadcast send failed")
			h.unregister(conn)
		}
	}
}

// ConnCount reports the size of the live connection set.
func (h *Hub) ConnCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
