package ledger

import (
	"wallet_relay/internal/domain"

	"github.com/sirupsen/logrus" // Logging library
)

// Renderer is the presentation collaborator. The browser page implements it
// with DOM updates; the headless client logs; tests record calls.
type Renderer interface {
	// RenderLedger redraws balances and the full history.
	RenderLedger(nodes map[string]domain.WalletNode, history []domain.Transaction)
	// RenderTransaction redraws a single history entry after a status change.
	RenderTransaction(tx domain.Transaction)
	// RenderNodeStatus updates one node's online indicator.
	RenderNodeStatus(nodeID string, online bool)
}

// LogRenderer renders ledger updates as log lines.
type LogRenderer struct{}

// NewLogRenderer returns a renderer that writes to the process log.
func NewLogRenderer() *LogRenderer { return &LogRenderer{} }

func (*LogRenderer) RenderLedger(nodes map[string]domain.WalletNode, history []domain.Transaction) {
	for id, node := range nodes {
		logrus.WithFields(logrus.Fields{
			"node":     id,                          // Node id
			"address":  node.Address,                // Wallet address
			"balance":  node.Balance.StringFixed(8), // Current balance
			"sent":     node.Sent.StringFixed(8),    // Cumulative outflow
			"received": node.Received.StringFixed(8),
		}).Info("Balance updated")
	}
	logrus.WithField("transactions", len(history)).Info("History updated")
}

func (*LogRenderer) RenderTransaction(tx domain.Transaction) {
	logrus.WithFields(logrus.Fields{
		"tx_id":  tx.ID,     // Transaction id
		"status": tx.Status, // New status
	}).Info("Transaction updated")
}

func (*LogRenderer) RenderNodeStatus(nodeID string, online bool) {
	logrus.WithFields(logrus.Fields{
		"node":   nodeID, // Node id
		"online": online, // Connection status
	}).Info("Node status changed")
}

// nopRenderer is used when no presentation layer is attached.
type nopRenderer struct{}

func (nopRenderer) RenderLedger(map[string]domain.WalletNode, []domain.Transaction) {}
func (nopRenderer) RenderTransaction(domain.Transaction)                            {}
func (nopRenderer) RenderNodeStatus(string, bool)                                   {}
