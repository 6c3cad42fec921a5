package ledger

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"wallet_relay/internal/relay"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T) (*relay.Hub, *httptest.Server, string) {
	t.Helper()
	hub := relay.NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)
	return hub, srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func startConnector(t *testing.T, url string, l *Ledger) *Connector {
	t.Helper()
	c := NewConnector(url, l)
	c.SetRetryDelay(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c
}

func online(l *Ledger) bool {
	node, _ := l.Node(Node1)
	return node.IsOnline
}

func TestConnectorMarksNodesOnline(t *testing.T) {
	hub, _, url := startRelay(t)
	l := NewLedger(nil)
	startConnector(t, url, l)

	require.Eventually(t, func() bool { return hub.ConnCount() == 1 },
		time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return online(l) },
		time.Second, 5*time.Millisecond)
}

func TestConnectorObservesRelayedTransactions(t *testing.T) {
	hub, _, url := startRelay(t)
	l := NewLedger(nil)
	startConnector(t, url, l)
	require.Eventually(t, func() bool { return hub.ConnCount() == 1 },
		time.Second, 5*time.Millisecond)

	// A second client submits a transfer; the connector's ledger mirrors it.
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer peer.Close()
	require.Eventually(t, func() bool { return hub.ConnCount() == 2 },
		time.Second, 5*time.Millisecond)

	env := observedEnvelope(t, Node1Address, Node2Address, "100")
	require.NoError(t, peer.WriteJSON(env))

	require.Eventually(t, func() bool {
		node, _ := l.Node(Node2)
		return node.Balance.Equal(dec("1100"))
	}, time.Second, 5*time.Millisecond)
	node1, _ := l.Node(Node1)
	assert.True(t, node1.Balance.Equal(dec("900")))
}

func TestConnectorSurvivesMalformedFrame(t *testing.T) {
	hub, _, url := startRelay(t)
	l := NewLedger(nil)
	startConnector(t, url, l)
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer peer.Close()
	require.Eventually(t, func() bool { return hub.ConnCount() == 2 },
		time.Second, 5*time.Millisecond)

	// The hub only relays well-formed envelopes, so push garbage straight
	// from the hub side instead.
	hub.Broadcast([]byte("{not json"), nil)
	require.NoError(t, peer.WriteJSON(observedEnvelope(t, Node1Address, Node2Address, "1")))

	require.Eventually(t, func() bool {
		node, _ := l.Node(Node2)
		return node.Balance.Equal(dec("1001"))
	}, time.Second, 5*time.Millisecond)
}

func TestConnectorReconnectsAfterLoss(t *testing.T) {
	hub, srv, url := startRelay(t)
	l := NewLedger(nil)
	startConnector(t, url, l)
	require.Eventually(t, func() bool { return online(l) },
		time.Second, 5*time.Millisecond)

	srv.CloseClientConnections()
	require.Eventually(t, func() bool { return !online(l) },
		time.Second, 5*time.Millisecond)

	// The fixed-delay retry brings the connection back by itself.
	require.Eventually(t, func() bool { return online(l) && hub.ConnCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestSendIsNoopWhileDisconnected(t *testing.T) {
	l := NewLedger(nil)
	c := NewConnector("ws://127.0.0.1:1/nowhere", l)

	sent := c.Send(observedEnvelope(t, Node1Address, Node2Address, "1"))
	assert.False(t, sent)
}
